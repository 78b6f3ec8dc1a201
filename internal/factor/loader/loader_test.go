package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datasetAliases() config.FieldAliases {
	return config.DefaultAliases().Dataset
}

func TestParseTableChineseKeys(t *testing.T) {
	data := []byte(`[{"項目名稱": "柴油", "單位": "公升", "排放係數": "2.7"}]`)

	table, err := ParseTable(data, datasetAliases())
	require.NoError(t, err)

	assert.Equal(t, domain.Table{"柴油": {Unit: "公升", Factor: 2.7}}, table)
}

func TestParseTableAliasOrderAndDefaults(t *testing.T) {
	data := []byte(`[
		{"name": "電力", "項目名稱": "ignored", "unit": "度", "factor": 0.494},
		{"name": "", "項目名稱": "天然氣", "factor": 1.879},
		{"name": "汽油", "factor": 0, "排放係數": 2.263},
		{"name": "煤", "unit": "", "單位": "公斤", "factor": "2.5"}
	]`)

	table, err := ParseTable(data, datasetAliases())
	require.NoError(t, err)

	assert.Equal(t, domain.Table{
		"電力":  {Unit: "度", Factor: 0.494},
		"天然氣": {Unit: config.DefaultUnit, Factor: 1.879},
		"汽油":  {Unit: config.DefaultUnit, Factor: 2.263},
		"煤":   {Unit: "公斤", Factor: 2.5},
	}, table)
}

func TestParseTableSkipsUnusableEntries(t *testing.T) {
	data := []byte(`[
		{"unit": "kg", "factor": 1.2},
		{"name": "no-factor", "unit": "kg"},
		{"name": "zero", "factor": 0},
		{"name": "bad", "factor": "abc"},
		{"name": "nan", "factor": "NaN"},
		"not an object",
		{"name": "ok", "factor": 3}
	]`)

	table, err := ParseTable(data, datasetAliases())
	require.NoError(t, err)

	assert.Len(t, table, 1)
	assert.Equal(t, domain.Value{Unit: config.DefaultUnit, Factor: 3}, table["ok"])
}

func TestParseTableRejectsNonArray(t *testing.T) {
	_, err := ParseTable([]byte(`{"name": "x"}`), datasetAliases())
	assert.ErrorIs(t, err, domain.ErrDatasetNotArray)

	_, err = ParseTable([]byte(`[{"name": `), datasetAliases())
	assert.ErrorIs(t, err, domain.ErrDatasetMalformed)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), datasetAliases())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "X", "unit": "kg", "factor": 1.5}]`), 0o644))

	table, err := LoadFile(path, datasetAliases())
	require.NoError(t, err)
	assert.Equal(t, domain.Table{"X": {Unit: "kg", Factor: 1.5}}, table)
}

func TestNormalizeUpstream(t *testing.T) {
	aliases := config.DefaultAliases().Upstream

	entries, err := NormalizeUpstream([]byte(`[{"Name": "X", "Unit": "kg", "CO2e": "1.5"}]`), aliases)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{{Name: "X", Unit: "kg", Factor: 1.5}}, entries)
}

func TestNormalizeUpstreamFallbacks(t *testing.T) {
	aliases := config.DefaultAliases().Upstream
	data := []byte(`{"records": [
		{"項目名稱": " 柴油 ", "單位": " 公升 ", "排放係數": "2.606"},
		{"Name": "Y", "CO2e": "n/a"},
		{"Unit": "kg", "CO2e": 4},
		{"Name": "   ", "CO2e": 4}
	]}`)

	entries, err := NormalizeUpstream(data, aliases)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{
		{Name: "柴油", Unit: "公升", Factor: 2.606},
		{Name: "Y", Unit: config.DefaultUnit, Factor: 0},
	}, entries)
}

func TestNormalizeUpstreamRejectsUnexpectedShape(t *testing.T) {
	aliases := config.DefaultAliases().Upstream

	_, err := NormalizeUpstream([]byte(`{"fields": []}`), aliases)
	assert.ErrorIs(t, err, domain.ErrDatasetNotArray)

	_, err = NormalizeUpstream([]byte(`<html>`), aliases)
	assert.ErrorIs(t, err, domain.ErrDatasetMalformed)
}
