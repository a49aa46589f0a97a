package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubmedbot/internal/domain"
)

// stubVoice returns fixed phrases so composed output is deterministic.
type stubVoice struct {
	phrases    map[string]string
	enthusiasm float64
}

func (s stubVoice) Draw(category string) string { return s.phrases[category] }
func (s stubVoice) Enthusiasm(string) float64   { return s.enthusiasm }

func TestPayoffSentence(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "first_marker_sentence_wins",
			text:     "Background blah. We conclude the drug works. Another result follows.",
			expected: "We conclude the drug works.",
		},
		{
			name:     "falls_back_to_last_sentence",
			text:     "Background only. Methods were standard. Patients were enrolled.",
			expected: "Patients were enrolled.",
		},
		{
			name:     "single_sentence",
			text:     "Only one sentence here.",
			expected: "Only one sentence here.",
		},
		{
			name:     "empty_text",
			text:     "",
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PayoffSentence(tc.text))
		})
	}
}

func TestHashtags(t *testing.T) {
	t.Run("keeps_first_three_in_table_order", func(t *testing.T) {
		tags := Hashtags("CRISPR gene editing for cancer vaccine trials in the microbiome")
		assert.Equal(t, []string{"#CRISPR", "#Genetics", "#CancerResearch"}, tags)
	})

	t.Run("no_matches_yields_nothing", func(t *testing.T) {
		assert.Empty(t, Hashtags("completely unrelated text"))
	})

	t.Run("one_tag_per_term", func(t *testing.T) {
		tags := Hashtags("microbiome microbiome microbiome")
		assert.Equal(t, []string{"#Microbiome"}, tags)
	})
}

func TestCompose(t *testing.T) {
	voice := stubVoice{
		phrases: map[string]string{
			"opening":    "Hot off the press:",
			"transition": "Bottom line:",
		},
		enthusiasm: 5,
	}
	composer := NewComposer(voice)

	article := domain.Article{
		ID:      "12345678",
		Title:   "Gut microbiome shifts predict therapy response.",
		Journal: "Nature Medicine",
	}
	content := domain.ArticleContent{
		ID:       "12345678",
		FullText: "Background text. We conclude that microbiome composition predicts response.",
	}

	text := composer.Compose(article, content)

	require.NotEmpty(t, text)
	assert.True(t, strings.HasPrefix(text, "Hot off the press: Gut microbiome shifts predict therapy response (Nature Medicine)."))
	assert.Contains(t, text, "Bottom line: Microbiome composition predicts response.")
	assert.Contains(t, text, "#Microbiome")
	assert.NotContains(t, text, "We conclude")
}

func TestComposeHighEnthusiasmExclaims(t *testing.T) {
	voice := stubVoice{phrases: map[string]string{}, enthusiasm: 9}
	composer := NewComposer(voice)

	text := composer.Compose(
		domain.Article{ID: "1", Title: "CRISPR repairs the gene"},
		domain.ArticleContent{ID: "1", FullText: "We show that the edit held."},
	)

	assert.Contains(t, text, "The edit held!")
}
