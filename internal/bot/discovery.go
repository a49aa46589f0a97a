package bot

import (
	"context"

	"pubmedbot/internal/domain"
)

// DiscoveryPass hunts for one tweetable article: it samples a bounded set
// of topics, fetches candidates per topic, skips ids already seen in the
// current day-window, rates the rest, and enqueues the first article that
// clears the publish gate. At most one article is published per pass.
func (b *Bot) DiscoveryPass(ctx context.Context) {
	if !b.budget.CanPost() {
		b.logger.Info("daily cap reached, skipping discovery pass",
			"posts_today", b.budget.PostsToday())
		return
	}

	for _, topic := range b.sampleTopics() {
		if ctx.Err() != nil {
			return
		}
		if b.huntTopic(ctx, topic) {
			return
		}
	}

	b.logger.Debug("discovery pass found nothing tweetable")
}

func (b *Bot) huntTopic(ctx context.Context, topic string) bool {
	log := b.logger.With("topic", topic)

	articles, err := b.source.Search(ctx, topic, b.cfg.CandidatesPerHunt)
	if err != nil {
		log.Warn("candidate search failed, skipping topic", "error", err)
		return false
	}
	log.Debug("topic candidates fetched", "count", len(articles))

	for _, article := range articles {
		if !b.markSeen(article.ID) {
			log.Debug("already seen", "article_id", article.ID)
			continue
		}

		content, err := b.source.FetchContent(ctx, article)
		if err != nil {
			log.Warn("content fetch failed, skipping candidate",
				"article_id", article.ID, "error", err)
			continue
		}

		rating := b.rater.Rate(article, content)
		log.Debug("candidate rated",
			"article_id", article.ID,
			"score", rating.Score,
			"tweetable", rating.Tweetable,
		)
		if !rating.Tweetable {
			continue
		}

		text := b.persona.ApplyQuirks(b.composer.Compose(article, content))
		if err := b.queue.Enqueue(text); err != nil {
			log.Warn("enqueue rejected", "article_id", article.ID, "error", err)
			return false
		}

		log.Info("article queued for posting",
			"article_id", article.ID, "score", rating.Score)
		return true
	}

	return false
}

// sampleTopics shuffles the configured topic list and returns a bounded
// prefix so successive passes cover different ground.
func (b *Bot) sampleTopics() []string {
	topics := make([]string, len(b.cfg.Topics))
	copy(topics, b.cfg.Topics)

	b.mu.Lock()
	b.rng.Shuffle(len(topics), func(i, j int) {
		topics[i], topics[j] = topics[j], topics[i]
	})
	b.mu.Unlock()

	limit := b.cfg.TopicsPerPass
	if limit <= 0 || limit > len(topics) {
		limit = len(topics)
	}
	return topics[:limit]
}

// rateWithAbstract rates an article using its abstract as the text body,
// for flows that have no separate content fetch (search replies).
func (b *Bot) rateWithAbstract(article domain.Article) domain.ArticleRating {
	return b.rater.Rate(article, domain.ArticleContent{
		ID:       article.ID,
		FullText: article.Abstract,
	})
}
