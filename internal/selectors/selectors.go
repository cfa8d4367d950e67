// Package selectors holds the CSS selector tables for the GDO score
// site as plain data. Page structure changes are handled here only.
package selectors

// SubmitButton is one named strategy for submitting the login form
type SubmitButton struct {
	Name     string
	Selector string
}

// LoginSelectors covers the top page and the login form
type LoginSelectors struct {
	LoginButton      string
	UsernameInput    string
	PasswordInput    string
	ModalCloseButton string
	SubmitButtons    []SubmitButton
}

// RowPair addresses the front-nine and back-nine variants of a score
// table row
type RowPair struct {
	Former string
	Latter string
}

// ScoreDetailSelectors covers one round's detail page. Base path:
// #container > div.score > ... > div.score__detail; all other selectors
// are relative to it unless noted.
type ScoreDetailSelectors struct {
	Base string

	Date                    string
	GolfPlaceName           string
	GolfPlaceNameAlt        string
	GolfPlaceNameBreadcrumb string // absolute, outside Base

	Weather string
	Wind    string
	Green   string
	Tee     string

	CourseFormerHalf string
	CourseLatterHalf string

	// ScoreCells picks the nine per-hole cells of a row; the leading
	// th label occupies nth-child(1)
	ScoreCells string

	ScoreRows       RowPair
	PuttRows        RowPair
	TeeshotRows     RowPair
	FairwayKeepRows RowPair
	OneOnRows       RowPair
	OBRows          RowPair
	BunkerRows      RowPair
	PenaltyRows     RowPair
	ParRows         RowPair
	YardRows        RowPair

	MemberRows RowPair
	MemberName string
}

// ScoreListSelectors covers the paginated score listing
type ScoreListSelectors struct {
	RoundLink string
}

// Login is the selector table for the authentication flow
var Login = LoginSelectors{
	LoginButton:      "a.button.button--login",
	UsernameInput:    "input[name='username']",
	PasswordInput:    "input[name='password']",
	ModalCloseButton: "#karte-5322018 button",
	SubmitButtons: []SubmitButton{
		{Name: "image-submit", Selector: `.parts_submit_btn input[type="image"]`},
		{Name: "form-submit", Selector: `.parts_submit_btn input[type="submit"]`},
		{Name: "generic-submit", Selector: `input[type="submit"]`},
		{Name: "button-submit", Selector: `button[type="submit"]`},
	},
}

// ScoreDetail is the selector table for one round's detail page
var ScoreDetail = ScoreDetailSelectors{
	Base: "#container > div.score > div.score__container > div.score__main > div.score__detail",

	Date:                    ".score__detail__place__info > p",
	GolfPlaceName:           ".score__detail__place__info > a",
	GolfPlaceNameAlt:        ".score__detail__place__info > div",
	GolfPlaceNameBreadcrumb: "#container > div.score > div.score__breadcrumb > ul > li:nth-child(4) > span",

	Weather: ".score__detail__place__info__list__item.is-weather",
	Wind:    ".score__detail__place__info__list__item.is-wind",
	Green:   ".score__detail__place__info__list__item.is-green",
	Tee:     ".score__detail__place__info__list__item.is-tee",

	CourseFormerHalf: "table:nth-child(4) > caption",
	CourseLatterHalf: "table:nth-child(6) > caption",

	ScoreCells: "td:nth-child(-n+10)",

	ScoreRows:       RowPair{"table:nth-child(4) > tbody > tr.is-myscore", "table:nth-child(6) > tbody > tr.is-myscore"},
	PuttRows:        RowPair{"table:nth-child(4) > tbody > tr.is-putt", "table:nth-child(6) > tbody > tr.is-putt"},
	TeeshotRows:     RowPair{"table:nth-child(4) > tbody > tr.is-teeshot", "table:nth-child(6) > tbody > tr.is-teeshot"},
	FairwayKeepRows: RowPair{"table:nth-child(4) > tbody > tr.is-fairway-keep", "table:nth-child(6) > tbody > tr.is-fairway-keep"},
	OneOnRows:       RowPair{"table:nth-child(4) > tbody > tr.is-oneon", "table:nth-child(6) > tbody > tr.is-oneon"},
	OBRows:          RowPair{"table:nth-child(4) > tbody > tr.is-ob", "table:nth-child(6) > tbody > tr.is-ob"},
	BunkerRows:      RowPair{"table:nth-child(4) > tbody > tr.is-bunker", "table:nth-child(6) > tbody > tr.is-bunker"},
	PenaltyRows:     RowPair{"table:nth-child(4) > tbody > tr.is-penalty", "table:nth-child(6) > tbody > tr.is-penalty"},
	ParRows:         RowPair{"table:nth-child(4) > tbody > tr.is-par", "table:nth-child(6) > tbody > tr.is-par"},
	YardRows:        RowPair{"table:nth-child(4) > tbody > tr.is-yard", "table:nth-child(6) > tbody > tr.is-yard"},

	MemberRows: RowPair{"table:nth-child(4) > tbody > tr.is-member", "table:nth-child(6) > tbody > tr.is-member"},
	MemberName: "th",
}

// ScoreList is the selector table for the listing pages
var ScoreList = ScoreListSelectors{
	RoundLink: "#container > div.score > div.score__container > div.score__main > div > table > tbody > tr > td:nth-child(2) > div > a.score__all__table__gc_name_text",
}
