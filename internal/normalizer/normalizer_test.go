package normalizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdoscore/internal/score"
)

func writeMappings(t *testing.T, placeJSON, prefectureYAML string) string {
	t.Helper()
	dir := t.TempDir()
	if placeJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, placeNameFile), []byte(placeJSON), 0o644))
	}
	if prefectureYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, prefectureFile), []byte(prefectureYAML), 0o644))
	}
	return dir
}

func TestCleanPlaceName(t *testing.T) {
	assert.Equal(t, "富士カントリー倶楽部", CleanPlaceName("富士カントリー倶楽部【予約特典あり】"))
	assert.Equal(t, "富士カントリー倶楽部", CleanPlaceName("【リニューアル】 富士カントリー倶楽部"))
	assert.Equal(t, "富士カントリー倶楽部", CleanPlaceName("富士カントリー倶楽部"))
}

func TestPlaceNameMapping(t *testing.T) {
	dir := writeMappings(t, `{"旧称ゴルフ倶楽部": "新名称ゴルフ倶楽部"}`, "")
	n := Load(dir)

	assert.Equal(t, "新名称ゴルフ倶楽部", n.PlaceName("旧称ゴルフ倶楽部"))
	// Annotations are stripped before the lookup
	assert.Equal(t, "新名称ゴルフ倶楽部", n.PlaceName("旧称ゴルフ倶楽部【お得】"))
	assert.Equal(t, "未知の倶楽部", n.PlaceName("未知の倶楽部"))
}

func TestPrefectureMapping(t *testing.T) {
	dir := writeMappings(t, "", "静岡: 静岡県\n")
	n := Load(dir)

	assert.Equal(t, "静岡県", n.Prefecture("静岡"))
	assert.Equal(t, "埼玉県", n.Prefecture("埼玉県"))
}

func TestLoadMissingFiles(t *testing.T) {
	n := Load(t.TempDir())
	assert.Equal(t, "そのまま", n.PlaceName("そのまま"))
	assert.Equal(t, "東京都", n.Prefecture("東京都"))
}

func TestLoadInvalidPlaceMapping(t *testing.T) {
	dir := writeMappings(t, `{not json`, "")
	n := Load(dir)
	assert.Equal(t, "名無し", n.PlaceName("名無し"))
}

func TestApplyAll(t *testing.T) {
	dir := writeMappings(t, `{"旧称GC": "新称GC"}`, "東京: 東京都\n")
	n := Load(dir)

	records := []score.Record{
		*score.New("2024", "05", "03", "旧称GC", "OUT", "IN"),
		*score.New("2024", "05", "04", "別のGC", "OUT", "IN"),
	}
	records[0].Prefecture = "東京"

	n.ApplyAll(records)
	assert.Equal(t, "新称GC", records[0].GolfPlaceName)
	assert.Equal(t, "東京都", records[0].Prefecture)
	assert.Equal(t, "別のGC", records[1].GolfPlaceName)
}
