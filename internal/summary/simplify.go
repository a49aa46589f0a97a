package summary

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	attributionExpr = regexp.MustCompile(`(?i)^(?:(?:here,?\s+)?we\s+(?:found|find|conclude[d]?|show(?:ed)?|demonstrate[d]?|report(?:ed)?|observe[d]?)\s+that\s+|(?:the\s+)?(?:authors?|researchers?|investigators|study|data)\s+(?:demonstrates?|demonstrated|shows?|showed|found|finds?|conclude[sd]?|suggests?|suggested|reports?|reported)\s+that\s+|in\s+conclusion,?\s+|taken\s+together,?\s+|overall,?\s+)`)
	connectiveExpr  = regexp.MustCompile(`(?i)^(?:however|moreover|furthermore|additionally|importantly|notably|interestingly|thus|therefore),?\s+`)
	parenExpr       = regexp.MustCompile(`\s*\([^()]*\)`)
	bracketExpr     = regexp.MustCompile(`\s*\[[^\[\]]*\]`)
	pValueExpr      = regexp.MustCompile(`(?i)[,;]?\s*\bp\s*(?:<=|>=|[<>=])\s*0?\.?\d+(?:\.\d+)?`)
	ciExpr          = regexp.MustCompile(`(?i)[,;]?\s*95%\s*(?:confidence\s+interval|ci)[^,;]*`)
	prePunctExpr    = regexp.MustCompile(`\s+([.,;:])`)
)

// Simplify strips hedging attributions, asides, and statistical artifacts
// from a sentence, leaving a clean declarative statement that ends with
// exactly one period. Applying it to its own output changes nothing beyond
// whitespace and period normalization.
func Simplify(sentence string) string {
	text := strings.TrimSpace(sentence)

	for {
		stripped := attributionExpr.ReplaceAllString(text, "")
		stripped = connectiveExpr.ReplaceAllString(stripped, "")
		if stripped == text {
			break
		}
		text = stripped
	}

	text = parenExpr.ReplaceAllString(text, "")
	text = bracketExpr.ReplaceAllString(text, "")
	text = pValueExpr.ReplaceAllString(text, "")
	text = ciExpr.ReplaceAllString(text, "")

	text = strings.Join(strings.Fields(text), " ")
	text = prePunctExpr.ReplaceAllString(text, "$1")

	text = strings.TrimRight(text, ".!? ")
	if text == "" {
		return ""
	}

	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes) + "."
}
