package ports

import (
	"context"

	"pubmedbot/internal/domain"
)

// ResearchSource pulls article metadata and text from the research database.
// Implementations may fail transiently; callers treat failures as "no
// results" and keep their loops alive.
type ResearchSource interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Article, error)
	FetchByID(ctx context.Context, id string) (domain.Article, error)
	FetchContent(ctx context.Context, article domain.Article) (domain.ArticleContent, error)
}

// Messenger sends outbound text to the social platform and streams inbound
// mentions. The platform enforces its own length ceiling; implementations
// truncate at that boundary.
type Messenger interface {
	Post(ctx context.Context, text string) (string, error)
	Reply(ctx context.Context, parentID, text string) (string, error)
	SubscribeToMentions(ctx context.Context, handle func(domain.Mention)) error
}

// Rater converts raw article text into a publish/skip decision. Must be
// deterministic and side-effect-free.
type Rater interface {
	Rate(article domain.Article, content domain.ArticleContent) domain.ArticleRating
}

// Composer produces the final postable summary text for an article.
type Composer interface {
	Compose(article domain.Article, content domain.ArticleContent) string
}
