package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdoscore/config"
	"gdoscore/pkg/errors"
)

type fakeLoader struct {
	pages    map[string]string
	failures map[string]int
	failAll  bool
	current  string
	visited  []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		pages:    map[string]string{},
		failures: map[string]int{},
	}
}

func (f *fakeLoader) Navigate(url string) error {
	f.visited = append(f.visited, url)
	if f.failAll {
		return fmt.Errorf("navigation failed: %s", url)
	}
	if n := f.failures[url]; n > 0 {
		f.failures[url] = n - 1
		return fmt.Errorf("navigation failed: %s", url)
	}
	html, ok := f.pages[url]
	if !ok {
		return fmt.Errorf("no such page: %s", url)
	}
	f.current = html
	return nil
}

func (f *fakeLoader) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(f.current))
}

func crawlConfig() *config.Config {
	return &config.Config{
		BaseURL:              "https://score.golfdigest.co.jp/",
		ScoreListURL:         "https://score.golfdigest.co.jp/score/list?mode=0&page=%d&gc_id=",
		MaxConsecutiveErrors: 3,
		RequestInterval:      time.Millisecond,
	}
}

// listingPage builds a listing document whose round links match the
// site's table nesting
func listingPage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="container"><div class="score">`)
	b.WriteString(`<div class="score__container"><div class="score__main"><div><table><tbody>`)
	for i, href := range hrefs {
		fmt.Fprintf(&b, `<tr><td>%d</td><td><div><a class="score__all__table__gc_name_text" href="%s">ラウンド%d</a></div></td></tr>`, i+1, href, i+1)
	}
	b.WriteString(`</tbody></table></div></div></div></div></div></body></html>`)
	return b.String()
}

func detailPageForYear(year int) string {
	p := fullDetailPage()
	p.date = fmt.Sprintf("%d/05/03(金)", year)
	return p.html()
}

func listURL(page int) string {
	return fmt.Sprintf("https://score.golfdigest.co.jp/score/list?mode=0&page=%d&gc_id=", page)
}

func detailURL(id int) string {
	return fmt.Sprintf("https://score.golfdigest.co.jp/score/detail?id=%d", id)
}

func TestRunCrawlsAllPages(t *testing.T) {
	loader := newFakeLoader()
	loader.pages[listURL(1)] = listingPage("/score/detail?id=1", "/score/detail?id=2")
	loader.pages[listURL(2)] = listingPage("/score/detail?id=3")
	loader.pages[listURL(3)] = listingPage()
	for id := 1; id <= 3; id++ {
		loader.pages[detailURL(id)] = detailPageForYear(2024)
	}

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, StateDone, c.State())
	assert.Equal(t, "2024", records[0].Year)
	assert.Equal(t, "富士カントリー倶楽部", records[0].GolfPlaceName)
}

func TestRunEmptyFirstListing(t *testing.T) {
	loader := newFakeLoader()
	loader.pages[listURL(1)] = listingPage()

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, StateDone, c.State())
}

func TestCircuitBreakerTripsAboveMax(t *testing.T) {
	loader := newFakeLoader()
	loader.failAll = true

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTooManyErrors))
	assert.Empty(t, records)
	assert.Equal(t, StateAborted, c.State())
	// One failed attempt per counter increment, tripping only past the
	// configured maximum
	assert.Len(t, loader.visited, 4)
}

func TestCircuitBreakerToleratesExactlyMax(t *testing.T) {
	loader := newFakeLoader()
	loader.pages[listURL(1)] = listingPage()
	loader.failures[listURL(1)] = 3

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, StateDone, c.State())
}

func TestFailedDetailSkipsRound(t *testing.T) {
	loader := newFakeLoader()
	loader.pages[listURL(1)] = listingPage("/score/detail?id=1", "/score/detail?id=2")
	loader.pages[listURL(2)] = listingPage()
	loader.pages[detailURL(2)] = detailPageForYear(2024)
	loader.failures[detailURL(1)] = 1

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestYearFilterEarlyTermination(t *testing.T) {
	loader := newFakeLoader()

	hrefs := []string{"/score/detail?id=1", "/score/detail?id=2", "/score/detail?id=3"}
	loader.pages[detailURL(1)] = detailPageForYear(2024)
	loader.pages[detailURL(2)] = detailPageForYear(2023)
	loader.pages[detailURL(3)] = detailPageForYear(2023)
	for id := 4; id < 14; id++ {
		hrefs = append(hrefs, fmt.Sprintf("/score/detail?id=%d", id))
		loader.pages[detailURL(id)] = detailPageForYear(2022)
	}
	loader.pages[listURL(1)] = listingPage(hrefs...)
	loader.pages[listURL(2)] = listingPage("/score/detail?id=99")

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), []int{2023})
	require.NoError(t, err)

	// The 2024 round is outside the target set but newer, so it is
	// discarded without counting toward termination. Ten consecutive
	// older rounds then end the crawl before page two is ever loaded.
	assert.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "2023", rec.Year)
	}
	assert.Equal(t, StateDone, c.State())
	assert.NotContains(t, loader.visited, listURL(2))
}

func TestYearFilterCounterResets(t *testing.T) {
	loader := newFakeLoader()

	var hrefs []string
	id := 1
	appendDetail := func(year int) {
		hrefs = append(hrefs, fmt.Sprintf("/score/detail?id=%d", id))
		loader.pages[detailURL(id)] = detailPageForYear(year)
		id++
	}
	for i := 0; i < 9; i++ {
		appendDetail(2022)
	}
	appendDetail(2023)
	for i := 0; i < 9; i++ {
		appendDetail(2022)
	}
	loader.pages[listURL(1)] = listingPage(hrefs...)
	loader.pages[listURL(2)] = listingPage()

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), []int{2023})
	require.NoError(t, err)

	// Nine older rounds never reach the limit, and the in-range round
	// resets the streak
	assert.Len(t, records, 1)
	assert.Equal(t, StateDone, c.State())
	assert.Contains(t, loader.visited, listURL(2))
}

func TestRunMultipleTargetYears(t *testing.T) {
	loader := newFakeLoader()
	loader.pages[listURL(1)] = listingPage("/score/detail?id=1", "/score/detail?id=2", "/score/detail?id=3")
	loader.pages[listURL(2)] = listingPage()
	loader.pages[detailURL(1)] = detailPageForYear(2024)
	loader.pages[detailURL(2)] = detailPageForYear(2023)
	loader.pages[detailURL(3)] = detailPageForYear(2024)

	c := New(loader, crawlConfig())
	records, err := c.Run(context.Background(), []int{2023, 2024})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestNormalizeLink(t *testing.T) {
	base := "https://score.golfdigest.co.jp/"
	testCases := []struct {
		href string
		want string
	}{
		{"/score/detail?id=1", "https://score.golfdigest.co.jp/score/detail?id=1"},
		{"//score.golfdigest.co.jp/score/detail?id=1", "https://score.golfdigest.co.jp/score/detail?id=1"},
		{"https://example.com/x", "https://example.com/x"},
		{"", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, NormalizeLink(tc.href, base))
	}
}
