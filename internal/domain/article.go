package domain

import "errors"

// ErrNotFound reports that the research database has no article for the
// requested identifier.
var ErrNotFound = errors.New("article not found")

// Article is a core entity describing metadata fetched from the research
// database. Immutable once fetched.
type Article struct {
	ID          string
	Title       string
	Abstract    string
	Authors     []string
	PublishedAt string
	Journal     string
	DOI         string
}

// ArticleContent carries the text body used for rating and summarizing.
// ID must match the Article it accompanies; currently the abstract stands
// in for true full text.
type ArticleContent struct {
	ID       string
	FullText string
}

// ArticleRating captures the heuristic scoring for one article. Derived and
// stateless; recomputed on demand, never persisted.
type ArticleRating struct {
	ID          string
	Score       float64
	Novelty     float64
	Impact      float64
	Methodology float64
	Relevance   float64
	Tweetable   bool
}
