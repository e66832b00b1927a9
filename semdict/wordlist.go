package semdict

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseWordList reads a plain-text word list, one candidate word per line.
// Tokens are returned as-is; filtering happens during candidate assembly.
func ParseWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return out, nil
}

// SplitWords converts raw comma or newline separated input into trimmed,
// deduplicated tokens. Used for the --words CLI flag.
func SplitWords(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	tokens := strings.FieldsFunc(data, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{})
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		normalized := NormalizeWord(token)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, token)
	}
	return out
}
