package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gdoscore/internal/score"
	"gdoscore/internal/selectors"
	"gdoscore/logger"
	"gdoscore/pkg/errors"
)

var courseNameRe = regexp.MustCompile(`(.*)コース`)

// Extractor reads typed values out of one loaded score detail page.
// Absent elements degrade to empty defaults and are logged, never
// returned as errors.
type Extractor struct {
	doc *goquery.Document
	sel selectors.ScoreDetailSelectors
	log *logger.Logger
}

// NewExtractor creates an extractor over a parsed detail page
func NewExtractor(doc *goquery.Document) *Extractor {
	return &Extractor{
		doc: doc,
		sel: selectors.ScoreDetail,
		log: logger.ForComponent("extractor"),
	}
}

// Text returns the trimmed text of the first element matching selector
// under the detail base path, or empty string when absent
func (e *Extractor) Text(selector string) string {
	s := e.doc.Find(e.sel.Base + " " + selector).First()
	if s.Length() == 0 {
		e.log.Warn().Str("selector", selector).Msg("Element not found")
		return ""
	}
	return strings.TrimSpace(s.Text())
}

// Sequence concatenates the per-hole cells of the front-nine and
// back-nine rows into one ordered list. An absent row contributes
// nothing; the caller sees the shorter sequence as-is.
func (e *Extractor) Sequence(rows selectors.RowPair) []string {
	out := []string{}
	for _, row := range []string{rows.Former, rows.Latter} {
		cells := e.rowCells(row)
		if cells == nil {
			e.log.Warn().Str("selector", row).Msg("Score row not found")
			continue
		}
		out = append(out, cells...)
	}
	return out
}

// rowCells returns the per-hole cell texts of one row, or nil when the
// row has no cells. Present-but-empty cells become the missing marker.
func (e *Extractor) rowCells(row string) []string {
	sel := e.doc.Find(e.sel.Base + " " + row + " " + e.sel.ScoreCells)
	if sel.Length() == 0 {
		return nil
	}
	cells := make([]string, 0, sel.Length())
	sel.Each(func(_ int, c *goquery.Selection) {
		text := strings.TrimSpace(c.Text())
		if text == "" {
			text = score.MissingMark
		}
		cells = append(cells, text)
	})
	return cells
}

// CategoricalCells reads the outcome rows (fairway keep, par-on) where
// the value lives in each cell's class attribute. The void marker
// stands in for is-void and absent cells only; any other class text,
// including an empty one, is kept as-is. The result always covers 18
// holes.
func (e *Extractor) CategoricalCells(rows selectors.RowPair) []string {
	out := make([]string, 0, score.HolesPerRound)
	for _, row := range []string{rows.Former, rows.Latter} {
		for i := 2; i <= score.HolesPerHalf+1; i++ {
			cell := e.doc.Find(fmt.Sprintf("%s %s td:nth-child(%d)", e.sel.Base, row, i)).First()
			if cell.Length() == 0 {
				out = append(out, score.VoidMark)
				continue
			}
			class := strings.TrimSpace(cell.AttrOr("class", ""))
			if strings.Contains(class, "is-void") {
				out = append(out, score.VoidMark)
				continue
			}
			out = append(out, class)
		}
	}
	return out
}

// CompanionBlock returns the companion names and their per-hole scores.
// Scores are read as a flat cell sequence per half and partitioned into
// nine-hole chunks, one per companion, front chunk before back chunk.
// An absent name block yields two empty sequences; most rounds have no
// recorded companions.
func (e *Extractor) CompanionBlock() ([]string, [][]string) {
	names := []string{}
	e.doc.Find(e.sel.Base + " " + e.sel.MemberRows.Former + " " + e.sel.MemberName).Each(func(_ int, s *goquery.Selection) {
		names = append(names, strings.TrimSpace(s.Text()))
	})
	if len(names) == 0 {
		return names, [][]string{}
	}

	former := e.rowCells(e.sel.MemberRows.Former)
	latter := e.rowCells(e.sel.MemberRows.Latter)

	scores := make([][]string, 0, len(names))
	for i := range names {
		memberScores := make([]string, 0, score.HolesPerRound)
		memberScores = append(memberScores, memberChunk(former, i)...)
		memberScores = append(memberScores, memberChunk(latter, i)...)
		scores = append(scores, memberScores)
	}
	return names, scores
}

// memberChunk picks companion i's nine-hole slice out of a flat half
func memberChunk(cells []string, i int) []string {
	start := i * score.HolesPerHalf
	if start >= len(cells) {
		return nil
	}
	end := start + score.HolesPerHalf
	if end > len(cells) {
		end = len(cells)
	}
	return cells[start:end]
}

// Round extracts one full round from the loaded detail page
func (e *Extractor) Round() (*score.Record, error) {
	dateText := e.Text(e.sel.Date)
	if len(dateText) < 10 {
		return nil, errors.NewParsing(fmt.Sprintf("date text too short: %q", dateText), nil)
	}
	year, month, day := dateText[0:4], dateText[5:7], dateText[8:10]

	place, prefecture := e.golfPlaceInfo()

	courseFormer := extractCourseName(e.Text(e.sel.CourseFormerHalf))
	courseLatter := extractCourseName(e.Text(e.sel.CourseLatterHalf))

	rec := score.New(year, month, day, place, courseFormer, courseLatter)
	rec.Prefecture = prefecture

	rec.Weather = e.Text(e.sel.Weather)
	rec.Wind = e.Text(e.sel.Wind)
	rec.Green = e.Text(e.sel.Green)
	rec.Tee = e.Text(e.sel.Tee)

	rec.HoleScores = e.Sequence(e.sel.ScoreRows)
	rec.PuttScores = e.Sequence(e.sel.PuttRows)
	rec.Teeshots = e.Sequence(e.sel.TeeshotRows)
	rec.FairwayKeeps = e.CategoricalCells(e.sel.FairwayKeepRows)
	rec.OneOns = e.CategoricalCells(e.sel.OneOnRows)
	rec.OBs = e.Sequence(e.sel.OBRows)
	rec.Bunkers = e.Sequence(e.sel.BunkerRows)
	rec.Penalties = e.Sequence(e.sel.PenaltyRows)
	rec.ParScores = e.Sequence(e.sel.ParRows)
	rec.YardScores = e.Sequence(e.sel.YardRows)

	rec.AccompanyMemberNames, rec.AccompanyMemberScores = e.CompanionBlock()

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// golfPlaceInfo resolves the golf place name and prefecture. Manual
// entries render the name in a div instead of a link; a breadcrumb
// lookup covers the remaining historical formats.
func (e *Extractor) golfPlaceInfo() (string, string) {
	for _, selector := range []string{e.sel.GolfPlaceName, e.sel.GolfPlaceNameAlt} {
		s := e.doc.Find(e.sel.Base + " " + selector).First()
		if text := strings.TrimSpace(s.Text()); text != "" {
			return parseGolfPlaceText(text)
		}
	}

	s := e.doc.Find(e.sel.GolfPlaceNameBreadcrumb).First()
	if text := strings.TrimSpace(s.Text()); text != "" {
		return text, ""
	}

	e.log.Warn().Msg("Golf place name not found")
	return "", ""
}

// parseGolfPlaceText splits "name(prefecture)" into its parts. Both
// ASCII and full-width parentheses occur in the wild.
func parseGolfPlaceText(text string) (string, string) {
	for _, parens := range [][2]string{{"(", ")"}, {"(", ")"}} {
		if idx := strings.Index(text, parens[0]); idx >= 0 {
			name := text[:idx]
			prefecture := strings.TrimSuffix(text[idx+len(parens[0]):], parens[1])
			return name, prefecture
		}
	}
	return text, ""
}

// extractCourseName strips the trailing コース suffix of a table caption
func extractCourseName(text string) string {
	if m := courseNameRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}
