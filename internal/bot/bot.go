package bot

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pubmedbot/internal/config"
	"pubmedbot/internal/domain"
	"pubmedbot/internal/persona"
	"pubmedbot/internal/ports"
	"pubmedbot/internal/queue"
)

const dayWindow = 24 * time.Hour

// Deps wires all collaborators into the bot.
type Deps struct {
	Config    config.BotConfig
	Source    ports.ResearchSource
	Messenger ports.Messenger
	Rater     ports.Rater
	Composer  ports.Composer
	Persona   *persona.State
	Queue     *queue.PostQueue
	Budget    *queue.Budget
	Logger    *slog.Logger
	Rand      *rand.Rand
}

// Bot holds the injected capabilities and the in-memory day-window state.
// No inheritance, no override chain: behavior comes from what is plugged in.
type Bot struct {
	cfg       config.BotConfig
	source    ports.ResearchSource
	messenger ports.Messenger
	rater     ports.Rater
	composer  ports.Composer
	persona   *persona.State
	queue     *queue.PostQueue
	budget    *queue.Budget
	logger    *slog.Logger
	rng       *rand.Rand

	mu      sync.Mutex
	seen    map[string]struct{}
	replied map[string]struct{}
}

// New constructs the bot. A nil rng gets a time-seeded source.
func New(deps Deps) *Bot {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:       deps.Config,
		source:    deps.Source,
		messenger: deps.Messenger,
		rater:     deps.Rater,
		composer:  deps.Composer,
		persona:   deps.Persona,
		queue:     deps.Queue,
		budget:    deps.Budget,
		logger:    logger,
		rng:       rng,
		seen:      map[string]struct{}{},
		replied:   map[string]struct{}{},
	}
}

// Run starts the periodic activities: discovery passes, queue drain ticks,
// mention subscription, and the two independent daily resets. It blocks
// until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.runDiscovery(ctx)
		return nil
	})

	g.Go(func() error {
		b.queue.Run(ctx, b.cfg.DrainInterval)
		return nil
	})

	g.Go(func() error {
		err := b.messenger.SubscribeToMentions(ctx, func(m domain.Mention) {
			b.HandleMention(ctx, m)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// The seen set and the daily counter reset on separate 24h timers.
	g.Go(func() error {
		runEvery(ctx, dayWindow, func() {
			b.resetSeen()
			b.logger.Info("seen set reset")
		})
		return nil
	})

	g.Go(func() error {
		runEvery(ctx, dayWindow, func() {
			b.budget.ResetDay()
			b.logger.Info("daily post counter reset")
		})
		return nil
	})

	return g.Wait()
}

func (b *Bot) runDiscovery(ctx context.Context) {
	b.DiscoveryPass(ctx)

	runEvery(ctx, b.cfg.DiscoveryInterval, func() {
		b.DiscoveryPass(ctx)
	})
}

func (b *Bot) markSeen(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	return true
}

func (b *Bot) resetSeen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = map[string]struct{}{}
}

func (b *Bot) markReplied(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.replied[id]; ok {
		return false
	}
	b.replied[id] = struct{}{}
	return true
}

func runEvery(ctx context.Context, every time.Duration, job func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job()
		}
	}
}
