// Package browser owns the headless browser session and the navigation
// gateway built on top of it.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"gdoscore/config"
	"gdoscore/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Session wraps one launched browser and its single page
type Session struct {
	cfg      *config.Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *logger.Logger
	debug    *DebugRecorder
}

// NewSession launches the browser and opens a stealth page. The page
// masks the usual automation fingerprints since the site blocks
// obvious bots.
func NewSession(cfg *config.Config) (*Session, error) {
	s := &Session{
		cfg:   cfg,
		log:   logger.ForComponent("browser"),
		debug: NewDebugRecorder(cfg),
	}

	path, _ := launcher.LookPath()
	s.launcher = launcher.New().
		Bin(path).
		Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("window-size", "1920,1080").
		Set("user-agent", userAgent).
		Set("lang", "ja-JP")

	url, err := s.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s.browser = rod.New().ControlURL(url)
	if err := s.browser.Connect(); err != nil {
		s.launcher.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(s.browser)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.page = page

	if _, err := page.SetExtraHeaders([]string{"Accept-Language", "ja-JP,ja;q=0.9,en-US;q=0.8"}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to set Accept-Language header")
	}

	s.log.Info().Bool("headless", cfg.Headless).Msg("Browser session started")
	return s, nil
}

// Page returns the session's page
func (s *Session) Page() *rod.Page {
	return s.page
}

// Debug returns the session's debug recorder
func (s *Session) Debug() *DebugRecorder {
	return s.debug
}

// Close flushes debug traces and shuts everything down
func (s *Session) Close() {
	if s.debug != nil {
		s.debug.Flush()
	}
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to close page")
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to close browser")
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	s.log.Info().Msg("Browser session closed")
}
