package semdict

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeWordsReplacesWholesale(t *testing.T) {
	existing := Dictionary{
		"fuego": {
			Poles:   map[string]float64{"fuego": 0.9, "amanecer": 0.2},
			Effects: map[string]float64{"temperature": 0.8, "brightness": 0.1},
		},
		"agua": {
			Poles:   map[string]float64{"agua": 0.7},
			Effects: map[string]float64{"rain_intensity": 0.6},
		},
	}
	fresh := Dictionary{
		"fuego": {
			Poles:   map[string]float64{"fuego": 0.5},
			Effects: map[string]float64{"temperature": 0.45},
		},
	}

	merged := MergeWords(existing, fresh)
	require.Len(t, merged, 2)

	// The recomputed entry replaces the old one entirely: no field blending,
	// the stale "amanecer" affinity is gone.
	assert.Equal(t, fresh["fuego"], merged["fuego"])
	assert.NotContains(t, merged["fuego"].Poles, "amanecer")
	// Untouched entries survive.
	assert.Equal(t, existing["agua"], merged["agua"])
}

func TestBuildOutputMeta(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	poles := PolesFile{
		Poles: map[string]Pole{
			"noche": {Label: "Noche", Emoji: "🌑", Affects: map[string]float64{"darkness": 0.9}},
			"agua":  {Affects: map[string]float64{"rain_intensity": 0.9}},
		},
	}
	dict := Dictionary{
		"noche": {Poles: map[string]float64{"noche": 1}, Effects: map[string]float64{"darkness": 0.9}},
	}

	out := BuildOutput(poles, dict, "test-model")
	assert.Equal(t, 1, out.Meta.TotalWords)
	assert.Equal(t, []string{"agua", "noche"}, out.Meta.Poles)
	assert.Equal(t, "2026-03-01T12:00:00", out.Meta.GeneratedAt)
	assert.Equal(t, "test-model", out.Meta.Model)

	// Missing label and glyph fall back to the pole name and a bullet.
	assert.Equal(t, "agua", out.Poles["agua"].Label)
	assert.Equal(t, "•", out.Poles["agua"].Emoji)
	assert.Equal(t, "🌑", out.Poles["noche"].Emoji)
}

func TestWriteAndLoadOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "semantic_dict.json")

	out := BuildOutput(PolesFile{
		Poles: map[string]Pole{"agua": {Affects: map[string]float64{"rain_intensity": 0.9}}},
	}, Dictionary{
		"lluvia": {Poles: map[string]float64{"agua": 0.8}, Effects: map[string]float64{"rain_intensity": 0.72}},
	}, "m")

	require.NoError(t, WriteOutput(path, out))

	// No temp file left behind.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadOutput(path)
	require.NoError(t, err)
	assert.Equal(t, out.Words, loaded.Words)
	assert.Equal(t, out.Meta.TotalWords, loaded.Meta.TotalWords)
}

func TestLoadOutputMissing(t *testing.T) {
	_, err := LoadOutput(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteSpecialWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "special_words.json")
	words := map[string]SpecialWord{
		"varda": {Effect: "golden_harvest", Description: "homenaje"},
	}
	require.NoError(t, WriteSpecialWords(path, words))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "golden_harvest")

	// A nil map still produces a valid, empty JSON object.
	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteSpecialWords(empty, nil))
	data, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}
