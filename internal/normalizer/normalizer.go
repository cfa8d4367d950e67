// Package normalizer canonicalizes scraped names so rounds at the same
// course group together across site renames.
package normalizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"gdoscore/internal/score"
	"gdoscore/logger"
)

const (
	placeNameFile  = "golf_place_name_mapping.json"
	prefectureFile = "prefecture_mapping.yaml"
)

// annotationPattern matches the bracketed campaign annotations the site
// appends to course names, e.g. 【予約特典あり】
var annotationPattern = regexp.MustCompile(`\s*【[^】]*】\s*`)

// Normalizer maps scraped names onto canonical ones using the mapping
// files in the data directory. Missing files leave the corresponding
// mapping empty, so normalization degrades to annotation cleanup only.
type Normalizer struct {
	placeNames  map[string]string
	prefectures map[string]string
	log         *logger.Logger
}

// Load reads the mapping files from dataDir
func Load(dataDir string) *Normalizer {
	n := &Normalizer{
		placeNames:  map[string]string{},
		prefectures: map[string]string{},
		log:         logger.ForComponent("normalizer"),
	}

	if data, err := os.ReadFile(filepath.Join(dataDir, placeNameFile)); err != nil {
		n.log.Debug().Err(err).Msg("No golf place name mapping, skipping")
	} else if err := json.Unmarshal(data, &n.placeNames); err != nil {
		n.log.Warn().Err(err).Str("file", placeNameFile).Msg("Invalid place name mapping, ignoring")
		n.placeNames = map[string]string{}
	}

	if data, err := os.ReadFile(filepath.Join(dataDir, prefectureFile)); err != nil {
		n.log.Debug().Err(err).Msg("No prefecture mapping, skipping")
	} else if err := yaml.Unmarshal(data, &n.prefectures); err != nil {
		n.log.Warn().Err(err).Str("file", prefectureFile).Msg("Invalid prefecture mapping, ignoring")
		n.prefectures = map[string]string{}
	}

	return n
}

// CleanPlaceName strips bracketed annotations from a course name
func CleanPlaceName(name string) string {
	return annotationPattern.ReplaceAllString(name, "")
}

// PlaceName returns the canonical name for a scraped golf place name
func (n *Normalizer) PlaceName(name string) string {
	cleaned := CleanPlaceName(name)
	if canonical, ok := n.placeNames[cleaned]; ok {
		return canonical
	}
	if canonical, ok := n.placeNames[name]; ok {
		return canonical
	}
	return cleaned
}

// Prefecture returns the canonical prefecture name
func (n *Normalizer) Prefecture(prefecture string) string {
	if canonical, ok := n.prefectures[prefecture]; ok {
		return canonical
	}
	return prefecture
}

// Apply normalizes one record in place
func (n *Normalizer) Apply(rec *score.Record) {
	before := rec.GolfPlaceName
	rec.GolfPlaceName = n.PlaceName(rec.GolfPlaceName)
	rec.Prefecture = n.Prefecture(rec.Prefecture)
	if rec.GolfPlaceName != before {
		n.log.Debug().Str("from", before).Str("to", rec.GolfPlaceName).Msg("Normalized golf place name")
	}
}

// ApplyAll normalizes every record in place
func (n *Normalizer) ApplyAll(records []score.Record) {
	for i := range records {
		n.Apply(&records[i])
	}
}
