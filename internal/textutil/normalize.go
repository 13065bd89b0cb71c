package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// stopWords are dropped before computing title similarity.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {},
	"of": {}, "to": {}, "in": {}, "for": {}, "on": {}, "at": {},
}

// Tokenize splits text into lowercase alphanumeric tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// NormalizeTitle lowercases the title, strips punctuation, and removes
// stop words so that similarity comparisons see only the significant terms.
func NormalizeTitle(title string) string {
	tokens := Tokenize(title)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, skip := stopWords[token]; skip {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
