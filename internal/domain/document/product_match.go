package document

import (
	"strings"
	"unicode"
)

// NameTokens splits a product name into lowercase tokens for fuzzy
// comparison. Separators are anything that is not a letter or digit.
func NameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NamesOverlap reports whether two product names share at least one
// token, ignoring case. "office chair" overlaps "Office Chair" and
// "Chair", but not "Standing Desk".
func NamesOverlap(a, b string) bool {
	tokensA := NameTokens(a)
	if len(tokensA) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		seen[t] = struct{}{}
	}
	for _, t := range NameTokens(b) {
		if _, ok := seen[t]; ok {
			return true
		}
	}
	return false
}
