package score

import (
	"fmt"

	"gdoscore/pkg/errors"
)

const (
	// MissingMark is stored when a numeric cell is present but holds no value
	MissingMark = "--"
	// VoidMark marks a hole that was not played in outcome rows
	VoidMark = "-"
	// HolesPerRound is the number of holes in a full round
	HolesPerRound = 18
	// HolesPerHalf is the number of holes in one half of a round
	HolesPerHalf = 9
)

// Record holds one played round as scraped from the score site.
// Field names mirror the persisted JSON format and must not change.
type Record struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`

	GolfPlaceName    string `json:"golf_place_name"`
	CourseFormerHalf string `json:"course_former_half"`
	CourseLatterHalf string `json:"course_latter_half"`
	Prefecture       string `json:"prefecture"`

	Weather string `json:"weather"`
	Wind    string `json:"wind"`
	Green   string `json:"green"`
	Tee     string `json:"tee"`

	HoleScores   []string `json:"hall_scores"`
	PuttScores   []string `json:"putt_scores"`
	Teeshots     []string `json:"teeshots"`
	FairwayKeeps []string `json:"fairway_keeps"`
	OneOns       []string `json:"oneons"`
	OBs          []string `json:"obs"`
	Bunkers      []string `json:"bunkers"`
	Penalties    []string `json:"penaltys"`
	ParScores    []string `json:"par_scores"`
	YardScores   []string `json:"yard_scores"`

	AccompanyMemberNames  []string   `json:"accompany_member_names"`
	AccompanyMemberScores [][]string `json:"accompany_member_scores"`
}

// New creates a Record with the required identity fields set and all
// optional list fields initialized to empty sequences.
func New(year, month, day, golfPlaceName, courseFormerHalf, courseLatterHalf string) *Record {
	r := &Record{
		Year:             year,
		Month:            month,
		Day:              day,
		GolfPlaceName:    golfPlaceName,
		CourseFormerHalf: courseFormerHalf,
		CourseLatterHalf: courseLatterHalf,
	}
	r.Normalize()
	return r
}

// Normalize replaces nil sequences with empty ones so serialized records
// always carry JSON arrays, never null.
func (r *Record) Normalize() {
	for _, s := range []*[]string{
		&r.HoleScores, &r.PuttScores, &r.Teeshots, &r.FairwayKeeps,
		&r.OneOns, &r.OBs, &r.Bunkers, &r.Penalties,
		&r.ParScores, &r.YardScores, &r.AccompanyMemberNames,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
	if r.AccompanyMemberScores == nil {
		r.AccompanyMemberScores = [][]string{}
	}
}

// Validate checks the required identity fields
func (r *Record) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"year", r.Year},
		{"month", r.Month},
		{"day", r.Day},
		{"golf_place_name", r.GolfPlaceName},
		{"course_former_half", r.CourseFormerHalf},
		{"course_latter_half", r.CourseLatterHalf},
	}
	for _, f := range required {
		if f.value == "" {
			return errors.NewValidation(fmt.Sprintf("record is missing required field %q", f.name))
		}
	}
	return nil
}

// Key identifies a round for deduplication
func (r *Record) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s", r.Year, r.Month, r.Day, r.GolfPlaceName)
}
