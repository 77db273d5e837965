// Package similarity finds the closest string in a candidate set by edit
// distance.
package similarity

import (
	"errors"
	"strings"
)

// ErrNoCandidates is returned when the candidate set is empty.
var ErrNoCandidates = errors.New("similarity: no candidates")

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// MostSimilar returns the candidate closest to target. Ties go to the first
// candidate encountered.
func MostSimilar(candidates []string, target string) (string, error) {
	return mostSimilar(candidates, target, func(s string) string { return s })
}

// MostSimilarFold is MostSimilar comparing lowercased strings. The returned
// candidate keeps its original casing.
func MostSimilarFold(candidates []string, target string) (string, error) {
	return mostSimilar(candidates, target, strings.ToLower)
}

func mostSimilar(candidates []string, target string, norm func(string) string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	target = norm(target)
	best, bestDistance := 0, -1
	for i, c := range candidates {
		d := Distance(norm(c), target)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return candidates[best], nil
}
