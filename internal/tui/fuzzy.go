package tui

import (
	"strings"
	"unicode"
)

// FuzzyMatch reports whether every rune of query appears in target in order,
// ignoring case, and scores the match. Consecutive runs, a match on the first
// rune, and matches right after a word boundary score higher.
func FuzzyMatch(query, target string) (bool, int) {
	if query == "" {
		return true, 0
	}

	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(target))

	qi, score, run := 0, 0, 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run
		if ti == 0 {
			score += 3
		} else if isBoundary(t[ti-1]) {
			score += 2
		}
	}
	return qi == len(q), score
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("/-_.", r)
}
