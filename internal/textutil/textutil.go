// Package textutil holds the text normalization and tokenization helpers
// shared by the guardrail filter, the intent classifier and the fuzzy
// resolver. All comparisons in those components run over normalized text.
package textutil

import (
	"strings"
	"unicode"
)

// Normalize lowercases the input and collapses runs of whitespace into a
// single space, trimming the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tokenize splits the input into lowercase word tokens. Any rune that is not
// a letter or digit acts as a separator.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of the input.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// OverlapRatio scores how much of the query is covered by the target:
// |query tokens ∩ target tokens| / |query tokens|. Returns 0 for an empty
// query.
func OverlapRatio(query, target string) float64 {
	qTokens := Tokenize(query)
	if len(qTokens) == 0 {
		return 0
	}
	tSet := TokenSet(target)
	seen := make(map[string]struct{}, len(qTokens))
	hits := 0
	for _, tok := range qTokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := tSet[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(seen))
}

// ContainsAny reports whether the normalized input contains any of the given
// phrases (substring match over normalized forms).
func ContainsAny(s string, phrases []string) (string, bool) {
	n := Normalize(s)
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(n, Normalize(p)) {
			return p, true
		}
	}
	return "", false
}

// HasToken reports whether any of the given words appears as a whole token
// in the input.
func HasToken(s string, words []string) bool {
	set := TokenSet(s)
	for _, w := range words {
		if _, ok := set[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}
