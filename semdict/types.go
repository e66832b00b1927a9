package semdict

import "encoding/json"

// Pole is one semantic category: a set of seed words plus the environmental
// parameters it pushes. Poles are plain configuration data, loaded once and
// never mutated.
type Pole struct {
	Seeds   []string           `json:"seeds"`
	Label   string             `json:"label"`
	Emoji   string             `json:"emoji"`
	Affects map[string]float64 `json:"affects"`
}

// SpecialWord is an out-of-band override handled by the frontend, passed
// through the generator untouched.
type SpecialWord struct {
	Effect      string `json:"effect"`
	Description string `json:"description"`
}

// EngineConfig carries the tunables read from the poles file.
type EngineConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultSimilarityThreshold is the cosine threshold used when the poles file
// does not set one.
const DefaultSimilarityThreshold = 0.35

// PolesFile mirrors the structure of the semantic poles JSON document.
type PolesFile struct {
	Poles        map[string]Pole        `json:"poles"`
	SpecialWords map[string]SpecialWord `json:"special_words"`
	Config       EngineConfig           `json:"config"`
}

// Threshold returns the configured similarity threshold or the default.
func (p PolesFile) Threshold() float64 {
	if p.Config.SimilarityThreshold > 0 {
		return p.Config.SimilarityThreshold
	}
	return DefaultSimilarityThreshold
}

// Entry is the mapping produced for a single word: pole affinities in [0, 1]
// and aggregated environmental effects in [-1, 1].
type Entry struct {
	Poles   map[string]float64 `json:"poles"`
	Effects map[string]float64 `json:"effects"`
}

// Dictionary maps lowercase words to their entries.
type Dictionary map[string]Entry

// PoleMeta is the pole summary embedded in the output document.
type PoleMeta struct {
	Emoji   string             `json:"emoji"`
	Label   string             `json:"label"`
	Affects map[string]float64 `json:"affects"`
}

// Meta is the generation metadata block of the output document.
type Meta struct {
	Generator   string   `json:"generator"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	TotalWords  int      `json:"total_words"`
	Poles       []string `json:"poles"`
	GeneratedAt string   `json:"generated_at"`
	Model       string   `json:"model"`
}

// Output is the full dictionary artifact consumed by the frontend.
type Output struct {
	Meta  Meta                `json:"_meta"`
	Poles map[string]PoleMeta `json:"poles"`
	Words Dictionary          `json:"words"`
}

// BuildStats summarizes one dictionary build.
type BuildStats struct {
	Mapped     int
	NoVector   int
	NoAffinity int
}

// EmbedderConfig wraps the configuration for the ORT embedder and cache.
type EmbedderConfig struct {
	OrtDLL        string `json:"ortDll"`
	ModelPath     string `json:"modelPath"`
	TokenizerPath string `json:"tokenizerPath"`
	MaxSeqLen     int    `json:"maxSeqLen"`
	CacheDir      string `json:"cacheDir"`
	ModelID       string `json:"modelId"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Embedder     EmbedderConfig `json:"embedder"`
	PolesPath    string         `json:"polesPath"`
	WordlistPath string         `json:"wordlistPath"`
	OutputPath   string         `json:"outputPath"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Embedder.MaxSeqLen == 0 {
		c.Embedder.MaxSeqLen = 512
	}
	if c.PolesPath == "" {
		c.PolesPath = "config/semantic_poles.json"
	}
	if c.OutputPath == "" {
		c.OutputPath = "data/semantic_dict.json"
	}
}
