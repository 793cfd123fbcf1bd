package errors

import (
	"fmt"
	"strings"
)

// SuggestKeyword suggests a node name when an unknown keyword is used.
// It uses Levenshtein distance on the lower-cased keyword to find the
// closest valid name.
func SuggestKeyword(unknown string, validKeywords []string) string {
	if len(validKeywords) == 0 {
		return ""
	}
	if unknown == "" {
		return fmt.Sprintf("Valid node names: %s", strings.Join(validKeywords, ", "))
	}

	// Find the closest match
	minDistance := 1000
	var bestMatch string

	lowered := strings.ToLower(unknown)
	for _, keyword := range validKeywords {
		dist := levenshteinDistance(lowered, keyword)
		if dist < minDistance {
			minDistance = dist
			bestMatch = keyword
		}
	}

	// Only suggest if the distance is reasonable (at most half the word)
	if minDistance <= (len(bestMatch)+1)/2 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	return fmt.Sprintf("Valid node names: %s", strings.Join(validKeywords, ", "))
}

// SuggestConstraintKey suggests the supported constraint key.
func SuggestConstraintKey(unknown string) string {
	if unknown == "" {
		return "Constraints have the form Id=<number>"
	}
	return fmt.Sprintf("'%s' is not a constraint key; only 'Id' is supported, e.g. [Id=42]", unknown)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	// Two rows are enough: the previous and the current one
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
