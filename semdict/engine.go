package semdict

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
)

// Engine maps words to environmental effects by scoring their similarity to
// the centroids of the configured semantic poles. One engine instance spans
// one generation run and owns the word-vector cache.
type Engine struct {
	embedder Embedder
	poles    PolesFile

	threshold float64
	centroids map[string][]float32

	// vecCache memoizes word lookups. A present key with a nil value means
	// the model has no usable vector for that word.
	vecCache map[string][]float32

	logger  *log.Logger
	verbose bool
}

// NewEngine constructs an engine for the given embedder and poles document.
func NewEngine(embedder Embedder, poles PolesFile, logger *log.Logger) (*Engine, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if len(poles.Poles) == 0 {
		return nil, errors.New("poles configuration is empty")
	}
	return &Engine{
		embedder:  embedder,
		poles:     poles,
		threshold: poles.Threshold(),
		centroids: make(map[string][]float32),
		vecCache:  make(map[string][]float32),
		logger:    logger,
	}, nil
}

// SetVerbose enables per-seed and per-word diagnostics.
func (e *Engine) SetVerbose(v bool) { e.verbose = v }

// Close releases embedder resources.
func (e *Engine) Close() error {
	if e.embedder != nil {
		return e.embedder.Close()
	}
	return nil
}

// Threshold returns the similarity threshold in effect.
func (e *Engine) Threshold() float64 { return e.threshold }

// CentroidCount returns how many poles produced a centroid.
func (e *Engine) CentroidCount() int { return len(e.centroids) }

// vectorOf returns the memoized vector for a word, or nil when the model has
// none. Degenerate zero-norm vectors are treated as absent.
func (e *Engine) vectorOf(ctx context.Context, word string) []float32 {
	if vec, ok := e.vecCache[word]; ok {
		return vec
	}
	vec, err := e.embedder.EmbedText(ctx, word)
	if err != nil {
		if e.verbose {
			e.logf("no vector for %q: %v", word, err)
		}
		e.vecCache[word] = nil
		return nil
	}
	if len(vec) == 0 || vectorNorm(vec) == 0 {
		e.vecCache[word] = nil
		return nil
	}
	e.vecCache[word] = vec
	return vec
}

// ComputeCentroids derives one unit-length centroid per pole from its seed
// words. Seeds without vectors are skipped; a pole whose every seed lacks a
// vector is dropped with a warning and excluded from all scoring.
func (e *Engine) ComputeCentroids(ctx context.Context) error {
	names := make([]string, 0, len(e.poles.Poles))
	for name := range e.poles.Poles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pole := e.poles.Poles[name]
		vectors := make([][]float32, 0, len(pole.Seeds))
		var missing []string
		for _, seed := range pole.Seeds {
			if vec := e.vectorOf(ctx, NormalizeWord(seed)); vec != nil {
				vectors = append(vectors, vec)
			} else {
				missing = append(missing, seed)
			}
		}
		if len(vectors) == 0 {
			e.logf("warning: pole %q has no valid seed vectors, dropping", name)
			continue
		}
		// A zero-norm mean is stored as-is; normalizeVector leaves it alone.
		e.centroids[name] = normalizeVector(meanVector(vectors))
		e.logf("pole %s: %d/%d seeds valid", name, len(vectors), len(pole.Seeds))
		if len(missing) > 0 && e.verbose {
			e.logf("  missing seeds: %v", missing)
		}
	}
	if len(e.centroids) == 0 {
		return errors.New("no pole produced a centroid")
	}
	return nil
}

// Affinities scores a single word against every pole centroid. The result is
// nil when the word has no usable vector or when no pole meets the
// similarity threshold.
func (e *Engine) Affinities(ctx context.Context, word string) map[string]float64 {
	vec := e.vectorOf(ctx, word)
	if vec == nil {
		return nil
	}
	unit := normalizeVector(vec)

	affinities := make(map[string]float64)
	for name, centroid := range e.centroids {
		similarity := dotProduct(unit, centroid)
		if similarity < e.threshold {
			continue
		}
		scaled := (similarity - e.threshold) / (1.0 - e.threshold)
		if scaled > 1.0 {
			scaled = 1.0
		}
		affinities[name] = round3(scaled)
	}
	if len(affinities) == 0 {
		return nil
	}
	return affinities
}

// Effects converts pole affinities into environmental parameter deltas.
// Poles touching the same parameter sum their contributions; totals are
// clamped to [-1, 1] and rounded to three decimals.
func (e *Engine) Effects(affinities map[string]float64) map[string]float64 {
	effects := make(map[string]float64)
	for name, strength := range affinities {
		pole, ok := e.poles.Poles[name]
		if !ok {
			continue
		}
		for param, weight := range pole.Affects {
			effects[param] += weight * strength
		}
	}
	for param, total := range effects {
		effects[param] = round3(clamp(total, -1.0, 1.0))
	}
	if len(effects) == 0 {
		return nil
	}
	return effects
}

// BuildOptions selects the candidate word sources for a dictionary build.
type BuildOptions struct {
	// ExtraWords are caller-supplied candidates, typically from a CLI flag.
	ExtraWords []string
	// WordlistPath optionally names a plain-text file with one word per
	// line. Tokens from this source must be purely alphabetic.
	WordlistPath string
}

// BuildDictionary processes the curated vocabulary plus any extra sources and
// returns the word dictionary together with run diagnostics.
func (e *Engine) BuildDictionary(ctx context.Context, opts BuildOptions) (Dictionary, BuildStats, error) {
	candidates, err := e.collectCandidates(opts)
	if err != nil {
		return nil, BuildStats{}, err
	}
	e.logf("%d candidate words", len(candidates))

	dict := make(Dictionary)
	var stats BuildStats
	for _, word := range candidates {
		affinities := e.Affinities(ctx, word)
		if affinities == nil {
			stats.NoVector++
			continue
		}
		effects := e.Effects(affinities)
		if len(effects) == 0 {
			stats.NoAffinity++
			continue
		}
		dict[word] = Entry{Poles: affinities, Effects: effects}
		stats.Mapped++
	}
	e.logf("%d words mapped (%d without vectors, %d below threshold)",
		stats.Mapped, stats.NoVector, stats.NoAffinity)
	return dict, stats, nil
}

// collectCandidates merges the word sources, normalizes and deduplicates
// them, and returns the result sorted. Sorted iteration keeps the output
// reproducible across runs.
func (e *Engine) collectCandidates(opts BuildOptions) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(raw string, alphaOnly bool) {
		w := NormalizeWord(raw)
		if len([]rune(w)) < 2 {
			return
		}
		if alphaOnly && !isAlphabetic(w) {
			return
		}
		seen[w] = struct{}{}
	}

	for _, w := range CuratedWords {
		add(w, false)
	}
	for _, w := range opts.ExtraWords {
		add(w, false)
	}
	if opts.WordlistPath != "" {
		words, err := ParseWordList(opts.WordlistPath)
		if err != nil {
			return nil, fmt.Errorf("read wordlist: %w", err)
		}
		for _, w := range words {
			add(w, true)
		}
	}

	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}

// SpecialWords returns the pass-through override map from the poles file.
func (e *Engine) SpecialWords() map[string]SpecialWord {
	return e.poles.SpecialWords
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
