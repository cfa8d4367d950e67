// Package analysis computes round statistics from saved score files.
package analysis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"gdoscore/internal/score"
	"gdoscore/internal/storage"
	"gdoscore/logger"
)

// Summary aggregates whole-round statistics
type Summary struct {
	Rounds          int
	AverageScore    float64
	AveragePutts    float64
	FairwayKeepRate float64
	ParOnRate       float64
}

// HalfComparison is the average per-half score across all rounds
type HalfComparison struct {
	FrontAverage float64
	BackAverage  float64
}

// PenaltyOutcomes compares hole scores on trouble holes against clean
// ones. A trouble hole has at least one OB, bunker, or penalty stroke.
type PenaltyOutcomes struct {
	TroubleHoles int
	CleanHoles   int
	TroubleScore float64
	CleanScore   float64
}

// LoadRounds reads every given score file, drops duplicate rounds, and
// returns them in file order. The first occurrence of a round wins.
func LoadRounds(paths ...string) ([]score.Record, error) {
	log := logger.ForComponent("analysis")

	seen := map[string]bool{}
	var records []score.Record
	for _, path := range paths {
		loaded, err := storage.Load(path)
		if err != nil {
			return nil, err
		}
		for _, rec := range loaded {
			key := rec.Key()
			if seen[key] {
				log.Debug().Str("round", key).Str("file", path).Msg("Skipping duplicate round")
				continue
			}
			seen[key] = true
			records = append(records, rec)
		}
	}
	log.Info().Int("files", len(paths)).Int("rounds", len(records)).Msg("Loaded rounds")
	return records, nil
}

// Summarize computes the whole-round statistics. Holes with missing
// values are excluded from the rates they cannot contribute to.
func Summarize(records []score.Record) Summary {
	s := Summary{Rounds: len(records)}
	if len(records) == 0 {
		return s
	}

	var totalScore, totalPutts int
	var scoredRounds, puttRounds int
	var keeps, keepChances int
	var parOns, parOnChances int

	for _, rec := range records {
		if sum, ok := sumValues(rec.HoleScores); ok {
			totalScore += sum
			scoredRounds++
		}
		if sum, ok := sumValues(rec.PuttScores); ok {
			totalPutts += sum
			puttRounds++
		}

		for _, v := range rec.FairwayKeeps {
			switch v {
			case "is-keep":
				keeps++
				keepChances++
			case "is-miss":
				keepChances++
			}
		}

		for i := 0; i < len(rec.HoleScores) && i < len(rec.PuttScores) && i < len(rec.ParScores); i++ {
			holeScore, ok1 := parseValue(rec.HoleScores[i])
			putts, ok2 := parseValue(rec.PuttScores[i])
			par, ok3 := parseValue(rec.ParScores[i])
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			parOnChances++
			if holeScore-putts <= par-2 {
				parOns++
			}
		}
	}

	if scoredRounds > 0 {
		s.AverageScore = float64(totalScore) / float64(scoredRounds)
	}
	if puttRounds > 0 {
		s.AveragePutts = float64(totalPutts) / float64(puttRounds)
	}
	if keepChances > 0 {
		s.FairwayKeepRate = float64(keeps) / float64(keepChances)
	}
	if parOnChances > 0 {
		s.ParOnRate = float64(parOns) / float64(parOnChances)
	}
	return s
}

// CompareHalves averages the front-nine and back-nine totals
func CompareHalves(records []score.Record) HalfComparison {
	var front, back, rounds int
	for _, rec := range records {
		if len(rec.HoleScores) != score.HolesPerRound {
			continue
		}
		f, ok1 := sumValues(rec.HoleScores[:score.HolesPerHalf])
		b, ok2 := sumValues(rec.HoleScores[score.HolesPerHalf:])
		if !ok1 || !ok2 {
			continue
		}
		front += f
		back += b
		rounds++
	}
	if rounds == 0 {
		return HalfComparison{}
	}
	return HalfComparison{
		FrontAverage: float64(front) / float64(rounds),
		BackAverage:  float64(back) / float64(rounds),
	}
}

// ComparePenaltyOutcomes splits holes into trouble and clean ones and
// averages the score of each group
func ComparePenaltyOutcomes(records []score.Record) PenaltyOutcomes {
	var p PenaltyOutcomes
	var troubleTotal, cleanTotal int

	for _, rec := range records {
		for i, raw := range rec.HoleScores {
			holeScore, ok := parseValue(raw)
			if !ok {
				continue
			}
			if holeInTrouble(rec, i) {
				p.TroubleHoles++
				troubleTotal += holeScore
			} else {
				p.CleanHoles++
				cleanTotal += holeScore
			}
		}
	}

	if p.TroubleHoles > 0 {
		p.TroubleScore = float64(troubleTotal) / float64(p.TroubleHoles)
	}
	if p.CleanHoles > 0 {
		p.CleanScore = float64(cleanTotal) / float64(p.CleanHoles)
	}
	return p
}

func holeInTrouble(rec score.Record, hole int) bool {
	for _, seq := range [][]string{rec.OBs, rec.Bunkers, rec.Penalties} {
		if hole >= len(seq) {
			continue
		}
		if v, ok := parseValue(seq[hole]); ok && v > 0 {
			return true
		}
	}
	return false
}

// Render writes the full report as tables
func Render(w io.Writer, records []score.Record) {
	s := Summarize(records)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Rounds")
	t.AppendHeader(table.Row{"Rounds", "Avg Score", "Avg Putts", "Fairway Keep", "Par On"})
	t.AppendRow(table.Row{
		s.Rounds,
		fmt.Sprintf("%.1f", s.AverageScore),
		fmt.Sprintf("%.1f", s.AveragePutts),
		fmt.Sprintf("%.1f%%", s.FairwayKeepRate*100),
		fmt.Sprintf("%.1f%%", s.ParOnRate*100),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	h := CompareHalves(records)
	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Halves")
	t.AppendHeader(table.Row{"Front 9 Avg", "Back 9 Avg"})
	t.AppendRow(table.Row{fmt.Sprintf("%.1f", h.FrontAverage), fmt.Sprintf("%.1f", h.BackAverage)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	p := ComparePenaltyOutcomes(records)
	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Trouble Holes")
	t.AppendHeader(table.Row{"Holes", "Avg Score", "Clean Holes", "Clean Avg"})
	t.AppendRow(table.Row{
		p.TroubleHoles,
		fmt.Sprintf("%.2f", p.TroubleScore),
		p.CleanHoles,
		fmt.Sprintf("%.2f", p.CleanScore),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// parseValue reads one numeric cell, reporting false for the missing
// and void markers or any other non-numeric text
func parseValue(raw string) (int, bool) {
	if raw == "" || raw == score.MissingMark || raw == score.VoidMark {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// sumValues totals a sequence, reporting false when no cell was numeric
func sumValues(values []string) (int, bool) {
	total := 0
	any := false
	for _, raw := range values {
		if v, ok := parseValue(raw); ok {
			total += v
			any = true
		}
	}
	return total, any
}
