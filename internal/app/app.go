package app

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"pubmedbot/internal/bot"
	"pubmedbot/internal/config"
	"pubmedbot/internal/infrastructure/pubmed"
	"pubmedbot/internal/infrastructure/twitter"
	"pubmedbot/internal/logging"
	"pubmedbot/internal/persona"
	"pubmedbot/internal/queue"
	"pubmedbot/internal/rating"
	"pubmedbot/internal/summary"
)

// Application wires configuration into the bot and its collaborators.
type Application struct {
	cfg config.Config
	bot *bot.Bot
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	voice := persona.New(cfg.Personality, nil)
	rater := rating.NewRater()
	composer := summary.NewComposer(voice)

	source := pubmed.NewClient(cfg.PubMed, nil, baseLogger.With("component", "pubmed"))
	messenger := twitter.NewClient(cfg.Twitter, cfg.Bot.MentionPoll,
		baseLogger.With("component", "twitter"))

	budget := queue.NewBudget(cfg.Bot.DailyCap, cfg.Bot.MinPostInterval, nil)
	postQueue := queue.New(messenger, budget, cfg.Bot.QueueCap,
		baseLogger.With("component", "queue"), nil)

	b := bot.New(bot.Deps{
		Config:    cfg.Bot,
		Source:    source,
		Messenger: messenger,
		Rater:     rater,
		Composer:  composer,
		Persona:   voice,
		Queue:     postQueue,
		Budget:    budget,
		Logger:    baseLogger.With("component", "bot"),
	})

	return &Application{cfg: cfg, bot: b}
}

// Run starts the bot loops and blocks until an interrupt signal arrives.
// In-flight network calls are abandoned via context cancellation; no
// multi-step state transition spans a network call, so the in-memory state
// stays consistent.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.bot.Run(ctx)
}
