package pager

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchKind grades how a search needle matches a candidate. Lower kinds
// are better matches.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefix
	MatchExactFold
	MatchPrefixFold
	MatchSubstring
	// MatchSubstringFold ignores case and treats '-' and '_' as equal.
	MatchSubstringFold
	// MatchSubsequence is a case-sensitive match with insertions only.
	MatchSubsequence
	MatchNone
)

var matchKindNames = [...]string{
	MatchExact:         "exact",
	MatchPrefix:        "prefix",
	MatchExactFold:     "exact-fold",
	MatchPrefixFold:    "prefix-fold",
	MatchSubstring:     "substring",
	MatchSubstringFold: "substring-fold",
	MatchSubsequence:   "subsequence",
	MatchNone:          "none",
}

func (k MatchKind) String() string {
	if k < 0 || int(k) >= len(matchKindNames) {
		return "unknown"
	}
	return matchKindNames[k]
}

// Match returns the best way needle matches haystack. An empty haystack
// never matches.
func Match(needle, haystack string) MatchKind {
	if haystack == "" {
		return MatchNone
	}
	switch {
	case haystack == needle:
		return MatchExact
	case strings.HasPrefix(haystack, needle):
		return MatchPrefix
	}

	lowerNeedle, lowerHay := strings.ToLower(needle), strings.ToLower(haystack)
	switch {
	case lowerHay == lowerNeedle:
		return MatchExactFold
	case strings.HasPrefix(lowerHay, lowerNeedle):
		return MatchPrefixFold
	case strings.Contains(haystack, needle):
		return MatchSubstring
	case strings.Contains(foldDash(lowerHay), foldDash(lowerNeedle)):
		return MatchSubstringFold
	case isSubsequence(needle, haystack):
		return MatchSubsequence
	}
	return MatchNone
}

func foldDash(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// isSubsequence reports whether the runes of needle appear in haystack in
// order with the same case. A case-insensitive fuzzy match is required
// first, which rejects most candidates cheaply.
func isSubsequence(needle, haystack string) bool {
	if len(fuzzy.Find(needle, []string{haystack})) == 0 {
		return false
	}
	rest := []rune(needle)
	for _, r := range haystack {
		if len(rest) == 0 {
			break
		}
		if r == rest[0] {
			rest = rest[1:]
		}
	}
	return len(rest) == 0
}
