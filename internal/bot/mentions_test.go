package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubmedbot/internal/domain"
	"pubmedbot/internal/queue"
	"pubmedbot/internal/rating"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		intent intent
		arg    string
	}{
		{
			name:   "slash_search_command",
			text:   "/search gut bacteria",
			intent: intentSearch,
			arg:    "gut bacteria",
		},
		{
			name:   "search_for_phrase",
			text:   "search for microbiome research",
			intent: intentSearch,
			arg:    "microbiome research",
		},
		{
			name:   "slash_summarize_with_id",
			text:   "/summarize 33445566",
			intent: intentSummarize,
			arg:    "33445566",
		},
		{
			name:   "summarize_phrase_with_id",
			text:   "please summarize 1234567 for me",
			intent: intentSummarize,
			arg:    "1234567",
		},
		{
			name:   "summarize_without_valid_id_falls_through",
			text:   "summarize 123",
			intent: intentGeneric,
		},
		{
			name:   "glued_search_command_is_not_a_command",
			text:   "/searchfoo gut bacteria",
			intent: intentGeneric,
		},
		{
			name:   "glued_summarize_command_is_not_a_command",
			text:   "/summarize99999999",
			intent: intentGeneric,
		},
		{
			name:   "bare_search_command_keeps_empty_query",
			text:   "/search",
			intent: intentSearch,
		},
		{
			name:   "question_mark",
			text:   "does this replicate?",
			intent: intentQuestion,
		},
		{
			name:   "interrogative_word",
			text:   "what happened with the trial",
			intent: intentQuestion,
		},
		{
			name:   "greeting",
			text:   "hey there bot",
			intent: intentGreeting,
		},
		{
			name:   "generic_fallback",
			text:   "nice weather today",
			intent: intentGeneric,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, arg := classify(tc.text)
			assert.Equal(t, tc.intent, kind)
			assert.Equal(t, tc.arg, arg)
		})
	}
}

func TestHandleMentionGreetingReplies(t *testing.T) {
	source := &fakeSource{}
	b, _, messenger := newTestBot(t, source, &stubRater{}, queue.NewBudget(5, 0, nil))

	b.HandleMention(context.Background(), domain.Mention{
		ID:   "m1",
		Text: "hello there",
	})

	replies := messenger.sentReplies()
	require.Len(t, replies, 1)
	assert.NotEmpty(t, replies[0])
}

func TestHandleMentionRepliesOncePerMention(t *testing.T) {
	source := &fakeSource{}
	b, _, messenger := newTestBot(t, source, &stubRater{}, queue.NewBudget(5, 0, nil))

	mention := domain.Mention{ID: "m1", Text: "hello"}
	b.HandleMention(context.Background(), mention)
	b.HandleMention(context.Background(), mention)

	assert.Len(t, messenger.sentReplies(), 1)
}

func TestHandleMentionSearchSendsRankedSequence(t *testing.T) {
	source := &fakeSource{
		articles: map[string][]domain.Article{
			"microbiome research": {
				{
					ID:       "100001",
					Title:    "A preliminary pilot look.",
					Journal:  "Minor Letters",
					Abstract: "A preliminary pilot study suggests possible effects.",
				},
				{
					ID:       "100002",
					Title:    "Novel CRISPR breakthrough trial.",
					Journal:  "Nature",
					Abstract: "Novel first breakthrough: randomized controlled trial shows improved survival and significant efficacy in human gene therapy.",
				},
			},
		},
	}
	messenger := &fakeMessenger{}
	budget := queue.NewBudget(5, 0, nil)
	postQueue := queue.New(messenger, budget, 10, nil, nil)
	b := New(Deps{
		Config:    testBotConfig(),
		Source:    source,
		Messenger: messenger,
		Rater:     rating.NewRater(),
		Composer:  stubComposer{},
		Persona:   newTestPersona(),
		Queue:     postQueue,
		Budget:    budget,
	})

	b.HandleMention(context.Background(), domain.Mention{
		ID:   "m2",
		Text: "search for microbiome research",
	})

	replies := messenger.sentReplies()
	require.Len(t, replies, 3)
	assert.Contains(t, replies[0], "microbiome research")
	assert.Contains(t, replies[1], "Novel CRISPR breakthrough trial")
	assert.Contains(t, replies[2], "A preliminary pilot look")
}

func TestHandleMentionSearchNoResults(t *testing.T) {
	source := &fakeSource{}
	b, _, messenger := newTestBot(t, source, &stubRater{}, queue.NewBudget(5, 0, nil))

	b.HandleMention(context.Background(), domain.Mention{
		ID:   "m3",
		Text: "search for something obscure",
	})

	replies := messenger.sentReplies()
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "something obscure")
}

func TestHandleMentionSummarizeReplies(t *testing.T) {
	source := &fakeSource{
		articles: map[string][]domain.Article{
			"any": {{ID: "33445566", Title: "Target paper"}},
		},
		contents: map[string]string{"33445566": "We conclude things."},
	}
	b, _, messenger := newTestBot(t, source, &stubRater{}, queue.NewBudget(5, 0, nil))

	b.HandleMention(context.Background(), domain.Mention{
		ID:   "m4",
		Text: "/summarize 33445566",
	})

	replies := messenger.sentReplies()
	require.Len(t, replies, 1)
	assert.Equal(t, "summary of 33445566", replies[0])
}

func TestHandleMentionSummarizeNotFound(t *testing.T) {
	source := &fakeSource{}
	b, _, messenger := newTestBot(t, source, &stubRater{}, queue.NewBudget(5, 0, nil))

	b.HandleMention(context.Background(), domain.Mention{
		ID:   "m5",
		Text: "/summarize 99999999",
	})

	replies := messenger.sentReplies()
	require.Len(t, replies, 1)
	assert.True(t, strings.Contains(replies[0], "couldn't find") ||
		strings.Contains(replies[0], "archives"), "reply: %s", replies[0])
}
