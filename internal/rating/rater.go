package rating

import (
	"strings"

	"pubmedbot/internal/domain"
	"pubmedbot/internal/ports"
)

// MinScoreThreshold is the composite score an article must reach before it
// may be published autonomously.
const MinScoreThreshold = 7.5

// controversyCeiling gates publishing regardless of the composite score.
const controversyCeiling = 0.5

const subScoreMax = 10.0

// Keyword lists backing the five weighted sub-scores. The avoid list is
// penalized at 8x the heaviest positive weight: safety over engagement.
var (
	noveltyTerms = []string{
		"novel", "first", "breakthrough", "unprecedented",
	}
	impactTerms = []string{
		"efficacy", "survival", "improved", "significant", "breakthrough",
	}
	methodologyTerms = []string{
		"randomized", "controlled", "trial", "double-blind",
	}
	relevanceTerms = []string{
		"crispr", "human", "trial", "gene", "clinical",
	}
	redFlagTerms = []string{
		"preliminary", "pilot", "limited", "suggests", "possible",
		"in vitro", "mice", "small sample",
	}
	avoidTerms = []string{
		"lawsuit", "fraud", "retraction", "misconduct", "controversy", "scandal",
	}
)

// Rater scores articles with a deterministic keyword heuristic.
type Rater struct{}

var _ ports.Rater = Rater{}

// NewRater returns the heuristic article rater.
func NewRater() Rater {
	return Rater{}
}

// Rate combines title and full text into one working text and produces the
// composite rating and publish decision.
func (Rater) Rate(article domain.Article, content domain.ArticleContent) domain.ArticleRating {
	text := strings.ToLower(article.Title + " " + content.FullText)

	novelty := TermScore(text, noveltyTerms, subScoreMax)
	impact := TermScore(text, impactTerms, subScoreMax)
	methodology := TermScore(text, methodologyTerms, subScoreMax)
	relevance := TermScore(text, relevanceTerms, subScoreMax)
	redFlag := TermScore(text, redFlagTerms, subScoreMax)
	controversy := TermScore(text, avoidTerms, subScoreMax)

	score := novelty*0.25 + impact*0.30 + methodology*0.25 + relevance*0.20 -
		redFlag*0.50 - controversy*2.0
	score = clamp(score, 0, 10)

	return domain.ArticleRating{
		ID:          article.ID,
		Score:       score,
		Novelty:     novelty,
		Impact:      impact,
		Methodology: methodology,
		Relevance:   relevance,
		Tweetable:   score >= MinScoreThreshold && controversy < controversyCeiling,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
