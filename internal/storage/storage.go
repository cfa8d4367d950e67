// Package storage persists scraped rounds as a UTF-8 JSON array file.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gdoscore/internal/score"
	"gdoscore/logger"
	"gdoscore/pkg/errors"
)

// Save writes records to a JSON array file under dir. When filename is
// empty a timestamp-based name is generated. Non-ASCII text is written
// literally, not escaped. Returns the path of the written file.
func Save(records []score.Record, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if filename == "" {
		filename = fmt.Sprintf("scores_%s.json", time.Now().Format("20060102150405"))
	}
	path := filepath.Join(dir, filename)

	normalized := make([]score.Record, len(records))
	for i, r := range records {
		r.Normalize()
		normalized[i] = r
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.ForComponent("storage").Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Saved score records")

	return path, nil
}

// Load reads a JSON array file back into validated records
func Load(path string) ([]score.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []score.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewParsing(fmt.Sprintf("failed to parse %s", path), err)
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, err
		}
		records[i].Normalize()
	}

	logger.ForComponent("storage").Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Loaded score records")

	return records, nil
}
