package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"pubmedbot/internal/domain"
)

type intent int

const (
	intentGeneric intent = iota
	intentSearch
	intentSummarize
	intentQuestion
	intentGreeting
)

var (
	searchForExpr = regexp.MustCompile(`(?i)\bsearch for\s+(.+)$`)
	summarizeExpr = regexp.MustCompile(`(?i)\bsummarize\b`)
	articleIDExpr = regexp.MustCompile(`\b(\d{5,10})\b`)
	greetingExpr  = regexp.MustCompile(`(?i)\b(hello|hi|hey|greetings|howdy)\b`)
	questionWords = []string{"what", "how", "why", "when", "where", "who", "is", "are", "can", "does", "do"}
)

const maxSearchReplies = 3

// HandleMention classifies one inbound mention and runs the matching
// handler. Each mention id is answered at most once per process lifetime.
func (b *Bot) HandleMention(ctx context.Context, m domain.Mention) {
	if !b.markReplied(m.ID) {
		return
	}

	log := b.logger.With("mention_id", m.ID, "author", m.Author.Username)

	kind, arg := classify(m.Text)
	log.Info("mention received", "intent", intentName(kind))

	var err error
	switch kind {
	case intentSearch:
		err = b.handleSearch(ctx, m, arg)
	case intentSummarize:
		err = b.handleSummarize(ctx, m, arg)
	case intentQuestion:
		err = b.reply(ctx, m, b.persona.FormatResponse("question", map[string]string{
			"answer": "promising signal, but I'd wait for the randomized trials",
		}))
	case intentGreeting:
		err = b.reply(ctx, m, b.persona.FormatResponse("greeting", nil))
	default:
		err = b.reply(ctx, m, b.persona.FormatResponse("fallback", nil))
	}

	if err != nil {
		log.Warn("mention handling failed", "error", err)
	}
}

// classify maps mention text to an intent, first match wins: explicit
// search, then summarize-with-id, then question shape, then greeting, then
// the generic fallback.
func classify(text string) (intent, string) {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	if hasCommand(lowered, "/search") {
		return intentSearch, strings.TrimSpace(trimmed[len("/search"):])
	}
	if match := searchForExpr.FindStringSubmatch(trimmed); match != nil {
		return intentSearch, strings.TrimSpace(match[1])
	}

	if hasCommand(lowered, "/summarize") || summarizeExpr.MatchString(lowered) {
		if match := articleIDExpr.FindStringSubmatch(trimmed); match != nil {
			return intentSummarize, match[1]
		}
	}

	if strings.Contains(lowered, "?") || startsWithAny(lowered, questionWords) {
		return intentQuestion, ""
	}

	if greetingExpr.MatchString(lowered) {
		return intentGreeting, ""
	}

	return intentGeneric, ""
}

// handleSearch ranks hits by composite score and sends the top ones as
// separate sequential messages, spaced to respect platform rate limits.
func (b *Bot) handleSearch(ctx context.Context, m domain.Mention, query string) error {
	if query == "" {
		return b.reply(ctx, m, b.persona.FormatResponse("fallback", nil))
	}

	articles, err := b.source.Search(ctx, query, 5)
	if err != nil {
		b.logger.Warn("mention search failed", "query", query, "error", err)
		articles = nil
	}
	if len(articles) == 0 {
		return b.reply(ctx, m, b.persona.FormatResponse("no_results", map[string]string{
			"query": query,
		}))
	}

	type hit struct {
		article domain.Article
		rating  domain.ArticleRating
	}
	hits := make([]hit, 0, len(articles))
	for _, article := range articles {
		hits = append(hits, hit{article: article, rating: b.rateWithAbstract(article)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].rating.Score > hits[j].rating.Score
	})
	if len(hits) > maxSearchReplies {
		hits = hits[:maxSearchReplies]
	}

	header := fmt.Sprintf("Top finds for \"%s\" (%d):", query, len(hits))
	if err := b.reply(ctx, m, header); err != nil {
		return err
	}

	for i, h := range hits {
		if err := sleepCtx(ctx, b.cfg.ReplyDelay); err != nil {
			return err
		}
		line := fmt.Sprintf("%d. %s (%s) — score %.1f/10, pubmed.gov/%s",
			i+1, strings.TrimSuffix(h.article.Title, "."), h.article.Journal,
			h.rating.Score, h.article.ID)
		if err := b.reply(ctx, m, line); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) handleSummarize(ctx context.Context, m domain.Mention, id string) error {
	article, err := b.source.FetchByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return b.reply(ctx, m, b.persona.FormatResponse("not_found", nil))
	}
	if err != nil {
		return fmt.Errorf("fetch article %s: %w", id, err)
	}

	content, err := b.source.FetchContent(ctx, article)
	if err != nil {
		return fmt.Errorf("fetch content %s: %w", id, err)
	}

	return b.reply(ctx, m, b.composer.Compose(article, content))
}

func (b *Bot) reply(ctx context.Context, m domain.Mention, text string) error {
	_, err := b.messenger.Reply(ctx, m.ID, text)
	if err != nil {
		return fmt.Errorf("reply to mention %s: %w", m.ID, err)
	}
	return nil
}

// hasCommand matches a leading slash command only as a whole token, so
// "/searchfoo" does not trigger "/search".
func hasCommand(lowered, cmd string) bool {
	return lowered == cmd || strings.HasPrefix(lowered, cmd+" ")
}

func startsWithAny(text string, words []string) bool {
	first, _, _ := strings.Cut(text, " ")
	for _, word := range words {
		if first == word {
			return true
		}
	}
	return false
}

func intentName(kind intent) string {
	switch kind {
	case intentSearch:
		return "search"
	case intentSummarize:
		return "summarize"
	case intentQuestion:
		return "question"
	case intentGreeting:
		return "greeting"
	default:
		return "generic"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
