package rating

import "strings"

// TermScore counts how many distinct terms occur as case-insensitive
// substrings of text and scales the hit ratio to maxScore. Pure function;
// an empty term list scores 0.
func TermScore(text string, terms []string, maxScore float64) float64 {
	if len(terms) == 0 {
		return 0
	}

	lowered := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			matched++
		}
	}

	return float64(matched) / float64(len(terms)) * maxScore
}
