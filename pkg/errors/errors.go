package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a scrape error
type Kind string

const (
	// KindLogin represents authentication failures
	KindLogin Kind = "login"
	// KindNavigation represents a page load that failed after exhausting retries
	KindNavigation Kind = "navigation"
	// KindTooManyErrors represents the consecutive-error circuit breaker tripping
	KindTooManyErrors Kind = "too_many_errors"
	// KindValidation represents record validation errors
	KindValidation Kind = "validation"
	// KindNotFound represents a missing persisted file
	KindNotFound Kind = "not_found"
	// KindParsing represents HTML parsing errors
	KindParsing Kind = "parsing"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Kind    Kind
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	return e.Kind == KindNavigation
}

// New creates a new ScrapeError
func New(kind Kind, message string, err error) *ScrapeError {
	return &ScrapeError{
		Kind:    kind,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewLogin creates a new login error
func NewLogin(message string, err error) *ScrapeError {
	return New(KindLogin, message, err)
}

// NewNavigation creates a new navigation error
func NewNavigation(url string, err error) *ScrapeError {
	return New(KindNavigation, fmt.Sprintf("failed to load %s", url), err)
}

// NewTooManyErrors creates the circuit breaker error
func NewTooManyErrors(count, max int) *ScrapeError {
	return New(KindTooManyErrors, fmt.Sprintf("%d consecutive errors exceeded limit of %d", count, max), nil)
}

// NewValidation creates a new validation error
func NewValidation(message string) *ScrapeError {
	return New(KindValidation, message, nil)
}

// NewNotFound creates a new missing-file error
func NewNotFound(path string, err error) *ScrapeError {
	return New(KindNotFound, fmt.Sprintf("file not found: %s", path), err)
}

// NewParsing creates a new parsing error
func NewParsing(message string, err error) *ScrapeError {
	return New(KindParsing, message, err)
}

// IsKind reports whether err is a ScrapeError of the given kind
func IsKind(err error, kind Kind) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
