package summary

import (
	"fmt"
	"strings"

	"pubmedbot/internal/domain"
	"pubmedbot/internal/ports"
)

// payoffMarkers flag the sentence most likely to carry the study's result.
var payoffMarkers = []string{"conclude", "finding", "result", "demonstrate", "show"}

// hashtagRule maps a trigger term to its hashtag. Slice order is the
// tie-break: earlier rules win when more than three terms match.
type hashtagRule struct {
	term string
	tag  string
}

var hashtagTable = []hashtagRule{
	{term: "crispr", tag: "#CRISPR"},
	{term: "gene", tag: "#Genetics"},
	{term: "cancer", tag: "#CancerResearch"},
	{term: "immunotherapy", tag: "#Immunotherapy"},
	{term: "vaccine", tag: "#Vaccines"},
	{term: "microbiome", tag: "#Microbiome"},
	{term: "neuro", tag: "#Neuroscience"},
	{term: "alzheimer", tag: "#Alzheimers"},
	{term: "stem cell", tag: "#StemCells"},
	{term: "antibiotic", tag: "#AntibioticResistance"},
	{term: "mrna", tag: "#mRNA"},
	{term: "clinical trial", tag: "#ClinicalTrials"},
}

const maxHashtags = 3

// Voice supplies the persona inputs the composer needs: non-repeating
// phrase rotation and topic enthusiasm.
type Voice interface {
	Draw(category string) string
	Enthusiasm(topic string) float64
}

// Composer turns a rated article into postable summary text.
type Composer struct {
	voice Voice
}

var _ ports.Composer = (*Composer)(nil)

// NewComposer wires the persona voice into the composer.
func NewComposer(voice Voice) *Composer {
	return &Composer{voice: voice}
}

// Compose selects the payoff sentence, simplifies it, derives hashtags, and
// assembles the final text from the persona's rotating template phrases.
// The platform's hard length ceiling is enforced at the post boundary, not
// here; this aims for typical lengths well under it.
func (c *Composer) Compose(article domain.Article, content domain.ArticleContent) string {
	payoff := Simplify(PayoffSentence(content.FullText))

	if c.voice.Enthusiasm(article.Title) >= 8 {
		payoff = strings.TrimSuffix(payoff, ".") + "!"
	}

	title := strings.TrimSuffix(strings.TrimSpace(article.Title), ".")

	var b strings.Builder
	if opening := c.voice.Draw("opening"); opening != "" {
		b.WriteString(opening)
		b.WriteString(" ")
	}
	b.WriteString(title)
	if article.Journal != "" {
		fmt.Fprintf(&b, " (%s)", article.Journal)
	}
	b.WriteString(". ")
	if transition := c.voice.Draw("transition"); transition != "" {
		b.WriteString(transition)
		b.WriteString(" ")
	}
	b.WriteString(payoff)

	if tags := Hashtags(article.Title + " " + content.FullText); len(tags) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(tags, " "))
	}

	return strings.TrimSpace(b.String())
}

// PayoffSentence returns the first sentence containing a payoff marker, or
// the last sentence when none does.
func PayoffSentence(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	for _, sentence := range sentences {
		lowered := strings.ToLower(sentence)
		for _, marker := range payoffMarkers {
			if strings.Contains(lowered, marker) {
				return sentence
			}
		}
	}

	return sentences[len(sentences)-1]
}

// Hashtags scans the text against the hashtag table and keeps the first
// three distinct matches in table order.
func Hashtags(text string) []string {
	lowered := strings.ToLower(text)

	var tags []string
	for _, rule := range hashtagTable {
		if !strings.Contains(lowered, rule.term) {
			continue
		}
		tags = append(tags, rule.tag)
		if len(tags) == maxHashtags {
			break
		}
	}

	return tags
}

func splitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
