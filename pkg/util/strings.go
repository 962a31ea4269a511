package util

import (
	"strings"
)

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rows of the distance matrix are enough
	prev := make([]int, len(r2)+1)
	cur := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		cur[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(r2)]
}

// FuzzyMatchScore returns a similarity score between 0.0 and 1.0 where 1.0
// is a perfect match, ignoring case and surrounding space
func FuzzyMatchScore(str1, str2 string) float64 {
	str1 = strings.ToLower(strings.TrimSpace(str1))
	str2 = strings.ToLower(strings.TrimSpace(str2))
	maxLen := max(len([]rune(str1)), len([]rune(str2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(str1, str2))/float64(maxLen)
}

// Closest returns the candidate most similar to s, as long as it scores at
// least threshold. Ties go to the earlier candidate.
func Closest(s string, candidates []string, threshold float64) (string, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if score := FuzzyMatchScore(s, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}

// DistinctStrings returns the distinct non empty values of values in first
// seen order
func DistinctStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
