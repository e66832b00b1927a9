package semdict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	generatorName    = "Text2Wind Semantic Dictionary Generator"
	generatorVersion = "1.0.0"
	generatorDesc    = "Maps Spanish words to environmental effects via word embeddings"
)

// timeNow is isolated for testing overrides (use time.Now by default).
var timeNow = time.Now

// BuildOutput assembles the final dictionary document from the poles
// configuration and the computed word entries.
func BuildOutput(poles PolesFile, dict Dictionary, modelID string) Output {
	poleMeta := make(map[string]PoleMeta, len(poles.Poles))
	names := make([]string, 0, len(poles.Poles))
	for name, pole := range poles.Poles {
		label := pole.Label
		if label == "" {
			label = name
		}
		emoji := pole.Emoji
		if emoji == "" {
			emoji = "•"
		}
		poleMeta[name] = PoleMeta{
			Emoji:   emoji,
			Label:   label,
			Affects: pole.Affects,
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return Output{
		Meta: Meta{
			Generator:   generatorName,
			Version:     generatorVersion,
			Description: generatorDesc,
			TotalWords:  len(dict),
			Poles:       names,
			GeneratedAt: timeNow().Format("2006-01-02T15:04:05"),
			Model:       modelID,
		},
		Poles: poleMeta,
		Words: dict,
	}
}

// MergeWords folds the freshly built entries into an existing dictionary.
// The merge is a flat union keyed by word: a recomputed entry replaces the
// old one wholesale, fields are never blended.
func MergeWords(existing, fresh Dictionary) Dictionary {
	out := make(Dictionary, len(existing)+len(fresh))
	for word, entry := range existing {
		out[word] = entry
	}
	for word, entry := range fresh {
		out[word] = entry
	}
	return out
}

// WriteOutput persists the dictionary document atomically. The parent
// directory is created when missing.
func WriteOutput(path string, out Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dictionary: %w", err)
	}
	return writeFileAtomic(path, data)
}

// LoadOutput reads a previously written dictionary document, used by extend
// mode to merge new entries into an existing artifact.
func LoadOutput(path string) (Output, error) {
	var out Output
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read dictionary: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode dictionary: %w", err)
	}
	return out, nil
}

// WriteSpecialWords persists the pass-through special-words sidecar next to
// the dictionary.
func WriteSpecialWords(path string, words map[string]SpecialWord) error {
	if words == nil {
		words = map[string]SpecialWord{}
	}
	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return fmt.Errorf("encode special words: %w", err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
