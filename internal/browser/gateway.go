package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"gdoscore/config"
	"gdoscore/logger"
	"gdoscore/pkg/errors"
)

// Gateway is the retrying navigation layer over a browser session. It
// knows nothing about the site's pages; callers own pacing and
// interpretation.
type Gateway struct {
	session *Session
	cfg     *config.Config
	log     *logger.Logger
}

func NewGateway(session *Session, cfg *config.Config) *Gateway {
	return &Gateway{
		session: session,
		cfg:     cfg,
		log:     logger.ForComponent("gateway"),
	}
}

// Navigate loads a URL, retrying transient failures with exponential
// backoff up to the configured attempt count
func (g *Gateway) Navigate(url string) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.cfg.RetryWaitMin
	policy.MaxInterval = g.cfg.RetryWaitMax
	policy.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := g.navigateOnce(url); err != nil {
			g.log.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("Navigation attempt failed")
			return err
		}
		return nil
	}, backoff.WithMaxRetries(policy, uint64(g.cfg.MaxRetries-1)))

	if err != nil {
		g.session.Debug().Snapshot(g.session.Page(), "navigation_failed")
		return errors.NewNavigation(url, err)
	}

	g.session.Debug().Trace("navigate", url)
	g.log.Debug().Str("url", url).Int("attempts", attempt).Msg("Navigation complete")
	return nil
}

// navigateOnce performs one navigation and waits for the DOM to settle
func (g *Gateway) navigateOnce(url string) (err error) {
	page := g.session.Page().Timeout(g.cfg.Timeout)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("navigation panic: %v", r)
		}
	}()

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return err
	}
	wait()

	// Timeout shows up on the page context rather than as a Navigate error
	return page.GetContext().Err()
}

// Document parses the current page's rendered HTML
func (g *Gateway) Document() (*goquery.Document, error) {
	html, err := g.session.Page().HTML()
	if err != nil {
		return nil, errors.NewParsing("read page html", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.NewParsing("parse page html", err)
	}
	return doc, nil
}

// Page exposes the underlying page for flows that need direct element
// interaction, like the login form
func (g *Gateway) Page() *rod.Page {
	return g.session.Page()
}

// Snapshot records debug artifacts for the current page
func (g *Gateway) Snapshot(reason string) {
	g.session.Debug().Snapshot(g.session.Page(), reason)
}
