package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"gdoscore/config"
	"gdoscore/internal/score"
	"gdoscore/internal/selectors"
	"gdoscore/logger"
	"gdoscore/pkg/errors"
)

// olderThanTargetLimit terminates the crawl after this many consecutive
// rounds older than every target year. Relies on the listing being
// reverse-chronological; kept as-is.
const olderThanTargetLimit = 10

// PageLoader is the navigation surface the crawler drives. The real
// implementation is the browser gateway; tests substitute a fake.
type PageLoader interface {
	Navigate(url string) error
	Document() (*goquery.Document, error)
}

// State is the crawl state machine's current position
type State int

const (
	// StateListing is loading a listing page
	StateListing State = iota
	// StateDetail is loading and extracting one round
	StateDetail
	// StateDone is terminal success
	StateDone
	// StateAborted is terminal failure
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateListing:
		return "listing"
	case StateDetail:
		return "detail"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Crawler drives the end-to-end crawl across listing and detail pages
type Crawler struct {
	loader  PageLoader
	cfg     *config.Config
	limiter *rate.Limiter
	log     *logger.Logger

	state             State
	page              int
	consecutiveErrors int
	olderThanTarget   int
	records           []score.Record
}

// New creates a crawler over a page loader
func New(loader PageLoader, cfg *config.Config) *Crawler {
	return &Crawler{
		loader:  loader,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		log:     logger.ForComponent("crawler"),
		state:   StateListing,
		page:    1,
	}
}

// State returns the crawl state machine's current position
func (c *Crawler) State() State {
	return c.state
}

// Run crawls every listing page and scrapes each round's detail page.
// When targetYears is non-empty, rounds outside those years are
// discarded, and the crawl ends early once the remaining history is
// entirely older than every target year.
func (c *Crawler) Run(ctx context.Context, targetYears []int) ([]score.Record, error) {
	c.state = StateListing
	c.page = 1
	c.records = nil

	for c.state == StateListing {
		links, err := c.loadListing(ctx)
		if err != nil {
			c.state = StateAborted
			return c.records, err
		}
		if len(links) == 0 {
			c.log.Info().Int("page", c.page).Msg("No rounds on listing page, crawl complete")
			c.state = StateDone
			break
		}

		c.log.Info().Int("page", c.page).Int("rounds", len(links)).Msg("Found rounds on listing page")

		for _, link := range links {
			done, err := c.scrapeDetail(ctx, link, targetYears)
			if err != nil {
				c.state = StateAborted
				return c.records, err
			}
			if done {
				c.log.Info().
					Int("consecutive_older", c.olderThanTarget).
					Msg("Remaining history is older than every target year, stopping")
				c.state = StateDone
				return c.records, nil
			}
		}

		c.page++
	}

	c.log.Info().Int("records", len(c.records)).Msg("Crawl finished")
	return c.records, nil
}

// loadListing paces, loads the current listing page, and returns the
// normalized detail links found on it. A failed load is retried on the
// same page so persistent failures run the error counter up to the
// breaker instead of silently skipping listing pages.
func (c *Crawler) loadListing(ctx context.Context) ([]string, error) {
	var doc *goquery.Document
	for doc == nil {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		url := fmt.Sprintf(c.cfg.ScoreListURL, c.page)
		if err := c.loader.Navigate(url); err != nil {
			c.log.Warn().Err(err).Int("page", c.page).Msg("Listing navigation failed")
			if berr := c.recordFailure(); berr != nil {
				return nil, berr
			}
			continue
		}

		d, err := c.loader.Document()
		if err != nil {
			c.log.Warn().Err(err).Int("page", c.page).Msg("Listing parse failed")
			if berr := c.recordFailure(); berr != nil {
				return nil, berr
			}
			continue
		}
		doc = d
	}
	c.recordSuccess()

	links := []string{}
	doc.Find(selectors.ScoreList.RoundLink).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, NormalizeLink(strings.TrimSpace(href), c.cfg.BaseURL))
	})
	return links, nil
}

// scrapeDetail loads one detail page and extracts its round. A failed
// navigation or extraction is one counted failure, not fatal by itself.
// The returned bool signals year-filter early termination.
func (c *Crawler) scrapeDetail(ctx context.Context, link string, targetYears []int) (bool, error) {
	c.state = StateDetail
	defer func() {
		if c.state == StateDetail {
			c.state = StateListing
		}
	}()

	if err := c.pace(ctx); err != nil {
		return false, err
	}

	if err := c.loader.Navigate(link); err != nil {
		c.log.Warn().Err(err).Str("url", link).Msg("Round navigation failed")
		return false, c.recordFailure()
	}

	doc, err := c.loader.Document()
	if err != nil {
		c.log.Warn().Err(err).Str("url", link).Msg("Round parse failed")
		return false, c.recordFailure()
	}

	rec, err := NewExtractor(doc).Round()
	if err != nil {
		c.log.Warn().Err(err).Str("url", link).Msg("Round extraction failed")
		return false, c.recordFailure()
	}
	c.recordSuccess()

	if len(targetYears) > 0 {
		keep, done := c.filterYear(rec, targetYears)
		if !keep {
			return done, nil
		}
	}

	c.records = append(c.records, *rec)
	c.log.Info().
		Str("date", fmt.Sprintf("%s/%s/%s", rec.Year, rec.Month, rec.Day)).
		Str("place", rec.GolfPlaceName).
		Msg("Round scraped")
	return false, nil
}

// filterYear applies the target-year set. Rounds older than every
// target bump a consecutive counter; in-range rounds reset it, which
// guards against false termination when years interleave across a page
// boundary.
func (c *Crawler) filterYear(rec *score.Record, targetYears []int) (keep bool, done bool) {
	year, err := strconv.Atoi(rec.Year)
	if err != nil {
		c.log.Warn().Str("year", rec.Year).Msg("Round has a non-numeric year, discarding")
		return false, false
	}

	minTarget := targetYears[0]
	inRange := false
	for _, t := range targetYears {
		if t < minTarget {
			minTarget = t
		}
		if t == year {
			inRange = true
		}
	}

	if inRange {
		c.olderThanTarget = 0
		return true, false
	}

	c.log.Debug().Int("year", year).Msg("Round outside target years, discarding")
	if year < minTarget {
		c.olderThanTarget++
		if c.olderThanTarget >= olderThanTargetLimit {
			return false, true
		}
	}
	return false, false
}

// recordFailure bumps the shared consecutive-error counter and trips
// the circuit breaker when it exceeds the configured maximum
func (c *Crawler) recordFailure() error {
	c.consecutiveErrors++
	if c.consecutiveErrors > c.cfg.MaxConsecutiveErrors {
		return errors.NewTooManyErrors(c.consecutiveErrors, c.cfg.MaxConsecutiveErrors)
	}
	return nil
}

func (c *Crawler) recordSuccess() {
	c.consecutiveErrors = 0
}

// pace blocks for the configured inter-request interval
func (c *Crawler) pace(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// NormalizeLink resolves protocol-relative and host-relative links
// against the configured base URL
func NormalizeLink(href, baseURL string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(baseURL, "/") + href
	default:
		return href
	}
}
