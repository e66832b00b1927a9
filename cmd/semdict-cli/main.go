package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"text2wind/semdict/semdict"
)

type cliOptions struct {
	configPath   string
	polesPath    string
	outputPath   string
	wordlistPath string
	words        string
	extend       bool
	test         bool
	verbose      bool
}

// sampleWords is printed after a build so a human can sanity-check coverage.
var sampleWords = []string{
	"lluvia", "fuego", "silencio", "olvido", "jardín",
	"tormenta", "paz", "noche", "amanecer", "lágrima",
	"esperanza", "soledad", "viento", "muerte", "nacer",
}

// probeWords drive --test mode: a spread of words across all poles.
var probeWords = []string{
	"lluvia", "fuego", "nieve", "sol", "noche", "amanecer",
	"tormenta", "paz", "olvido", "grito", "susurro", "mar",
	"jardín", "desierto", "sombra", "brillo", "silencio",
	"lágrima", "calor", "hielo", "viento", "abrazo",
	"espiga", "memoria", "basura", "corazón", "mano",
	"amor", "odio", "miedo", "esperanza", "muerte", "vida",
	"soledad", "nostalgia", "ternura", "angustia", "ceniza",
	"polvo", "hierba", "flor", "mariposa", "horizonte",
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("semdict-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("semdict-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.polesPath, "poles", "", "Path to semantic poles JSON (overrides config)")
	flag.StringVar(&opts.outputPath, "output", "", "Output path for the dictionary JSON (overrides config)")
	flag.StringVar(&opts.wordlistPath, "wordlist", "", "Plain-text word list, one candidate per line (overrides config)")
	flag.StringVar(&opts.words, "words", "", "Comma-separated extra words to include")
	flag.BoolVar(&opts.extend, "extend", false, "Merge into an existing dictionary instead of replacing it")
	flag.BoolVar(&opts.test, "test", false, "Test mode: check poles and show probe-word mappings")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.polesPath = strings.TrimSpace(opts.polesPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.wordlistPath = strings.TrimSpace(opts.wordlistPath)
	return opts, nil
}

func run(opts cliOptions) error {
	// .env may carry machine-local model paths; absence is fine.
	_ = godotenv.Load()

	cfg, err := semdict.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyEnvOverrides(&cfg)
	if opts.polesPath != "" {
		cfg.PolesPath = opts.polesPath
	}
	if opts.outputPath != "" {
		cfg.OutputPath = opts.outputPath
	}
	if opts.wordlistPath != "" {
		cfg.WordlistPath = opts.wordlistPath
	}

	embedder, err := semdict.NewOrtEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	defer embedder.Close()

	poles, err := semdict.LoadPoles(cfg.PolesPath)
	if err != nil {
		return fmt.Errorf("load poles: %w", err)
	}

	ctx := context.Background()
	logger := log.New(os.Stdout, "", log.LstdFlags)
	engine, err := semdict.NewEngine(embedder, poles, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	engine.SetVerbose(opts.verbose)
	defer engine.Close()

	if err := engine.ComputeCentroids(ctx); err != nil {
		return fmt.Errorf("compute centroids: %w", err)
	}

	if opts.test {
		runProbe(ctx, engine, poles)
		return nil
	}

	var extraWords []string
	if opts.words != "" {
		extraWords = semdict.SplitWords(opts.words)
	}

	dict, _, err := engine.BuildDictionary(ctx, semdict.BuildOptions{
		ExtraWords:   extraWords,
		WordlistPath: cfg.WordlistPath,
	})
	if err != nil {
		return fmt.Errorf("build dictionary: %w", err)
	}

	if opts.extend {
		existing, err := semdict.LoadOutput(cfg.OutputPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load existing dictionary: %w", err)
			}
		} else {
			logger.Printf("extending existing dictionary: %s", cfg.OutputPath)
			dict = semdict.MergeWords(existing.Words, dict)
		}
	}

	out := semdict.BuildOutput(poles, dict, embedder.ModelID())
	if err := semdict.WriteOutput(cfg.OutputPath, out); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	logger.Printf("dictionary saved: %s (%d words)", cfg.OutputPath, len(dict))

	specialPath := filepath.Join(filepath.Dir(cfg.OutputPath), "special_words.json")
	if err := semdict.WriteSpecialWords(specialPath, poles.SpecialWords); err != nil {
		return fmt.Errorf("write special words: %w", err)
	}
	logger.Printf("special words saved: %s (%d words)", specialPath, len(poles.SpecialWords))

	printSamples(poles, dict)
	return nil
}

// applyEnvOverrides lets a local .env point at machine-specific model files
// without editing config.json.
func applyEnvOverrides(cfg *semdict.Config) {
	if v := os.Getenv("SEMDICT_ORT_DLL"); v != "" {
		cfg.Embedder.OrtDLL = v
	}
	if v := os.Getenv("SEMDICT_MODEL_PATH"); v != "" {
		cfg.Embedder.ModelPath = v
	}
	if v := os.Getenv("SEMDICT_TOKENIZER_PATH"); v != "" {
		cfg.Embedder.TokenizerPath = v
	}
	if v := os.Getenv("SEMDICT_CACHE_DIR"); v != "" {
		cfg.Embedder.CacheDir = v
	}
}

func printSamples(poles semdict.PolesFile, dict semdict.Dictionary) {
	fmt.Println()
	fmt.Println("Sample mappings:")
	for _, word := range sampleWords {
		entry, ok := dict[word]
		if !ok {
			fmt.Printf("  %-14s -> (not mapped)\n", word)
			continue
		}
		fmt.Printf("  %-14s -> %s\n", word, formatAffinities(entry.Poles, poles, 0.05))
	}
}

func runProbe(ctx context.Context, engine *semdict.Engine, poles semdict.PolesFile) {
	fmt.Printf("Testing %d probe words:\n\n", len(probeWords))
	mapped := 0
	for _, word := range probeWords {
		affinities := engine.Affinities(ctx, word)
		if affinities == nil {
			fmt.Printf("  [ ] %-14s (no affinity)\n", word)
			continue
		}
		mapped++
		fmt.Printf("  [x] %-14s %s\n", word, formatAffinities(affinities, poles, 0.02))
	}

	if len(poles.SpecialWords) > 0 {
		fmt.Printf("\nSpecial words (%d):\n", len(poles.SpecialWords))
		names := make([]string, 0, len(poles.SpecialWords))
		for word := range poles.SpecialWords {
			names = append(names, word)
		}
		sort.Strings(names)
		for _, word := range names {
			sw := poles.SpecialWords[word]
			fmt.Printf("  %-14s -> %-20s %s\n", word, sw.Effect, sw.Description)
		}
	}
	fmt.Printf("\nCoverage: %d/%d (%.0f%%)\n",
		mapped, len(probeWords), float64(mapped)/float64(len(probeWords))*100)
}

// formatAffinities renders a pole map as "emoji score" pairs, strongest
// first, hiding entries below min.
func formatAffinities(affinities map[string]float64, poles semdict.PolesFile, min float64) string {
	type scored struct {
		name  string
		value float64
	}
	items := make([]scored, 0, len(affinities))
	for name, value := range affinities {
		if value <= min {
			continue
		}
		items = append(items, scored{name, value})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].value == items[j].value {
			return items[i].name < items[j].name
		}
		return items[i].value > items[j].value
	})
	parts := make([]string, 0, len(items))
	for _, it := range items {
		glyph := poles.Poles[it.name].Emoji
		if glyph == "" {
			glyph = it.name
		}
		parts = append(parts, fmt.Sprintf("%s%.2f", glyph, it.value))
	}
	if len(parts) == 0 {
		return "(below display cutoff)"
	}
	return strings.Join(parts, " ")
}
