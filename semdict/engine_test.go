package semdict

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder serves fixed vectors from a map and counts lookups. Words
// missing from the map have no vector, mirroring out-of-vocabulary tokens.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   map[string]int
}

func newStubEmbedder(vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{vectors: vectors, calls: make(map[string]int)}
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls[text]++
	if vec, ok := s.vectors[text]; ok {
		return cloneVector(vec), nil
	}
	return nil, nil
}

func (s *stubEmbedder) Close() error    { return nil }
func (s *stubEmbedder) ModelID() string { return "stub-model" }

// unitAt returns a 3-dimensional vector whose cosine against (1,0,0) is x.
func unitAt(x float64) []float32 {
	return []float32{float32(x), float32(math.Sqrt(1 - x*x)), 0}
}

var (
	axisFire  = []float32{1, 0, 0}
	axisWater = []float32{0, 1, 0}
)

func firePoles() PolesFile {
	return PolesFile{
		Poles: map[string]Pole{
			"fuego": {
				Seeds:   []string{"fuego", "calor", "llama"},
				Label:   "Fuego",
				Emoji:   "🔥",
				Affects: map[string]float64{"temperature": 0.9},
			},
		},
	}
}

func newTestEngine(t *testing.T, poles PolesFile, vectors map[string][]float32) (*Engine, *stubEmbedder) {
	t.Helper()
	embedder := newStubEmbedder(vectors)
	engine, err := NewEngine(embedder, poles, nil)
	require.NoError(t, err)
	require.NoError(t, engine.ComputeCentroids(context.Background()))
	return engine, embedder
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(nil, firePoles(), nil)
	assert.Error(t, err)

	_, err = NewEngine(newStubEmbedder(nil), PolesFile{}, nil)
	assert.Error(t, err)
}

func TestComputeCentroidsDropsEmptyPole(t *testing.T) {
	poles := firePoles()
	poles.Poles["bruma"] = Pole{
		Seeds:   []string{"palabrainexistente"},
		Affects: map[string]float64{"fog_density": 0.8},
	}
	vectors := map[string][]float32{
		"fuego": axisFire,
		"calor": axisFire,
		"llama": axisFire,
	}
	engine, _ := newTestEngine(t, poles, vectors)
	assert.Equal(t, 1, engine.CentroidCount())

	// The dropped pole can never appear in any affinity map.
	aff := engine.Affinities(context.Background(), "fuego")
	require.NotNil(t, aff)
	assert.NotContains(t, aff, "bruma")
}

func TestComputeCentroidsAllPolesEmpty(t *testing.T) {
	embedder := newStubEmbedder(nil)
	engine, err := NewEngine(embedder, firePoles(), nil)
	require.NoError(t, err)
	assert.Error(t, engine.ComputeCentroids(context.Background()))
}

func TestCentroidSkipsMissingSeeds(t *testing.T) {
	// Only one of three seeds has a vector; the centroid is still computed.
	vectors := map[string][]float32{"fuego": axisFire}
	engine, _ := newTestEngine(t, firePoles(), vectors)
	assert.Equal(t, 1, engine.CentroidCount())
}

func TestAffinityScenarioIncendio(t *testing.T) {
	vectors := map[string][]float32{
		"fuego":    axisFire,
		"calor":    axisFire,
		"llama":    axisFire,
		"incendio": unitAt(0.7),
	}
	engine, _ := newTestEngine(t, firePoles(), vectors)

	aff := engine.Affinities(context.Background(), "incendio")
	require.NotNil(t, aff)
	assert.Equal(t, 0.538, aff["fuego"])

	effects := engine.Effects(aff)
	assert.Equal(t, 0.484, effects["temperature"])
}

func TestAffinityThresholdBoundary(t *testing.T) {
	vectors := map[string][]float32{
		"fuego":  axisFire,
		"calor":  axisFire,
		"llama":  axisFire,
		"umbral": unitAt(0.3502),
		"lejos":  unitAt(0.2),
	}
	engine, _ := newTestEngine(t, firePoles(), vectors)
	ctx := context.Background()

	// A hair above the threshold rounds to affinity 0.0 but still qualifies.
	aff := engine.Affinities(ctx, "umbral")
	require.NotNil(t, aff)
	require.Contains(t, aff, "fuego")
	assert.Equal(t, 0.0, aff["fuego"])

	// Identical direction scores exactly 1.0.
	aff = engine.Affinities(ctx, "fuego")
	require.NotNil(t, aff)
	assert.Equal(t, 1.0, aff["fuego"])

	// Below the threshold there is no affinity at all.
	assert.Nil(t, engine.Affinities(ctx, "lejos"))
}

func TestAffinityNoVectorAndZeroNorm(t *testing.T) {
	vectors := map[string][]float32{
		"fuego": axisFire,
		"calor": axisFire,
		"llama": axisFire,
		"nulo":  {0, 0, 0},
	}
	engine, _ := newTestEngine(t, firePoles(), vectors)
	ctx := context.Background()

	assert.Nil(t, engine.Affinities(ctx, "desconocida"))
	assert.Nil(t, engine.Affinities(ctx, "nulo"))
}

func TestVectorLookupIsMemoized(t *testing.T) {
	vectors := map[string][]float32{
		"fuego": axisFire,
		"calor": axisFire,
		"llama": axisFire,
	}
	engine, embedder := newTestEngine(t, firePoles(), vectors)
	ctx := context.Background()

	// Seed lookups already happened during centroid computation; scoring the
	// same word must not hit the embedder again.
	engine.Affinities(ctx, "fuego")
	engine.Affinities(ctx, "fuego")
	assert.Equal(t, 1, embedder.calls["fuego"])

	// Absent words are memoized too.
	engine.Affinities(ctx, "desconocida")
	engine.Affinities(ctx, "desconocida")
	assert.Equal(t, 1, embedder.calls["desconocida"])
}

func TestEffectsAggregationLinearity(t *testing.T) {
	poles := PolesFile{
		Poles: map[string]Pole{
			"fuego":  {Affects: map[string]float64{"temperature": 0.9, "brightness": 0.4}},
			"verano": {Affects: map[string]float64{"temperature": 0.3}},
		},
	}
	engine, err := NewEngine(newStubEmbedder(nil), poles, nil)
	require.NoError(t, err)

	effects := engine.Effects(map[string]float64{"fuego": 0.5, "verano": 0.4})
	assert.InDelta(t, 0.9*0.5+0.3*0.4, effects["temperature"], 0.0005)
	assert.InDelta(t, 0.4*0.5, effects["brightness"], 0.0005)
}

func TestEffectsClamping(t *testing.T) {
	poles := PolesFile{
		Poles: map[string]Pole{
			"a": {Affects: map[string]float64{"heat": 1.0, "cold": -1.0}},
			"b": {Affects: map[string]float64{"heat": 1.0, "cold": -1.0}},
		},
	}
	engine, err := NewEngine(newStubEmbedder(nil), poles, nil)
	require.NoError(t, err)

	effects := engine.Effects(map[string]float64{"a": 0.9, "b": 0.9})
	assert.Equal(t, 1.0, effects["heat"])
	assert.Equal(t, -1.0, effects["cold"])
}

func TestEffectsEmptyWhenPolesAffectNothing(t *testing.T) {
	poles := PolesFile{
		Poles: map[string]Pole{
			"mudo": {Affects: map[string]float64{}},
		},
	}
	engine, err := NewEngine(newStubEmbedder(nil), poles, nil)
	require.NoError(t, err)
	assert.Nil(t, engine.Effects(map[string]float64{"mudo": 0.8}))
}

func TestBuildDictionary(t *testing.T) {
	vectors := map[string][]float32{
		"fuego":    axisFire,
		"calor":    axisFire,
		"llama":    axisFire,
		"incendio": unitAt(0.7),
		"agua":     axisWater,
	}
	engine, _ := newTestEngine(t, firePoles(), vectors)

	dict, stats, err := engine.BuildDictionary(context.Background(), BuildOptions{
		ExtraWords: []string{"incendio", "agua"},
	})
	require.NoError(t, err)

	// Mapped words carry both maps; orthogonal and unknown words are absent.
	require.Contains(t, dict, "incendio")
	assert.Equal(t, 0.538, dict["incendio"].Poles["fuego"])
	assert.Equal(t, 0.484, dict["incendio"].Effects["temperature"])
	assert.NotContains(t, dict, "agua")
	assert.NotContains(t, dict, "desconocida")

	assert.Equal(t, len(dict), stats.Mapped)
	assert.Greater(t, stats.NoVector, 0)
}

func TestBuildDictionaryBounds(t *testing.T) {
	vectors := map[string][]float32{
		"fuego":    axisFire,
		"calor":    axisFire,
		"llama":    axisFire,
		"incendio": unitAt(0.7),
		"brasa":    unitAt(0.95),
		"tibio":    unitAt(0.4),
	}
	engine, _ := newTestEngine(t, firePoles(), vectors)

	dict, _, err := engine.BuildDictionary(context.Background(), BuildOptions{
		ExtraWords: []string{"incendio", "brasa", "tibio"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, dict)

	for word, entry := range dict {
		for pole, v := range entry.Poles {
			assert.GreaterOrEqual(t, v, 0.0, "%s/%s", word, pole)
			assert.LessOrEqual(t, v, 1.0, "%s/%s", word, pole)
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
		for param, v := range entry.Effects {
			assert.GreaterOrEqual(t, v, -1.0, "%s/%s", word, param)
			assert.LessOrEqual(t, v, 1.0, "%s/%s", word, param)
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestBuildDictionaryCandidateFilters(t *testing.T) {
	vectors := map[string][]float32{
		"fuego": axisFire,
		"calor": axisFire,
		"llama": axisFire,
		"ll":    axisFire,
	}
	wordlist := filepath.Join(t.TempDir(), "wordlist.txt")
	require.NoError(t, os.WriteFile(wordlist, []byte("fuego123\nx\nLLAMA\n"), 0o644))

	engine, embedder := newTestEngine(t, firePoles(), vectors)
	dict, _, err := engine.BuildDictionary(context.Background(), BuildOptions{
		ExtraWords:   []string{"l", "LL"},
		WordlistPath: wordlist,
	})
	require.NoError(t, err)

	// Single-rune tokens never reach the embedder from any source.
	assert.Zero(t, embedder.calls["l"])
	assert.Zero(t, embedder.calls["x"])
	// The word-list source additionally requires alphabetic tokens.
	assert.Zero(t, embedder.calls["fuego123"])
	// Extra words are lowercased before lookup; two-rune tokens pass.
	assert.Contains(t, dict, "ll")
	// Word-list entries are normalized like every other source.
	assert.Contains(t, dict, "llama")
}

func TestBuildDictionaryDeterminism(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	vectors := map[string][]float32{
		"fuego":    axisFire,
		"calor":    axisFire,
		"llama":    axisFire,
		"incendio": unitAt(0.7),
		"brasa":    unitAt(0.95),
	}
	poles := firePoles()

	var artifacts [][]byte
	for i := 0; i < 2; i++ {
		engine, _ := newTestEngine(t, poles, vectors)
		dict, _, err := engine.BuildDictionary(context.Background(), BuildOptions{
			ExtraWords: []string{"incendio", "brasa"},
		})
		require.NoError(t, err)
		data, err := json.Marshal(BuildOutput(poles, dict, "stub-model"))
		require.NoError(t, err)
		artifacts = append(artifacts, data)
	}
	assert.Equal(t, artifacts[0], artifacts[1])
}

func TestCustomThreshold(t *testing.T) {
	poles := firePoles()
	poles.Config.SimilarityThreshold = 0.6
	vectors := map[string][]float32{
		"fuego":    axisFire,
		"calor":    axisFire,
		"llama":    axisFire,
		"incendio": unitAt(0.7),
		"tibio":    unitAt(0.5),
	}
	engine, _ := newTestEngine(t, poles, vectors)
	ctx := context.Background()

	assert.Equal(t, 0.6, engine.Threshold())
	assert.Nil(t, engine.Affinities(ctx, "tibio"))
	aff := engine.Affinities(ctx, "incendio")
	require.NotNil(t, aff)
	assert.InDelta(t, (0.7-0.6)/0.4, aff["fuego"], 0.0005)
}
