package selectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmitStrategiesOrderedSpecificFirst(t *testing.T) {
	names := make([]string, 0, len(Login.SubmitButtons))
	for _, s := range Login.SubmitButtons {
		assert.NotEmpty(t, s.Selector)
		names = append(names, s.Name)
	}
	// The form-local controls must be tried before the page-wide ones
	assert.Equal(t, []string{"image-submit", "form-submit", "generic-submit", "button-submit"}, names)
}

func TestRowPairsDistinguishHalves(t *testing.T) {
	pairs := []RowPair{
		ScoreDetail.ScoreRows,
		ScoreDetail.PuttRows,
		ScoreDetail.ParRows,
		ScoreDetail.MemberRows,
	}
	for _, p := range pairs {
		assert.NotEmpty(t, p.Former)
		assert.NotEmpty(t, p.Latter)
		assert.NotEqual(t, p.Former, p.Latter)
	}
}
