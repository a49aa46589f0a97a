package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned when the backlog cap is hit. New entries are
// rejected rather than evicting pending ones, so accepted text is never
// silently dropped.
var ErrQueueFull = errors.New("post queue full")

// Poster sends one message to the platform.
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

type entry struct {
	id         string
	text       string
	enqueuedAt time.Time
}

// PostQueue is the throttled outbound scheduler. Entries drain FIFO, one
// per qualifying tick; a failed send leaves its entry at the head so the
// next tick retries it.
type PostQueue struct {
	poster Poster
	budget *Budget
	logger *slog.Logger
	cap    int
	now    func() time.Time

	mu      sync.Mutex
	entries []entry
	busy    bool
}

// New builds a queue with the given backlog cap; a nil clock uses time.Now.
func New(poster Poster, budget *Budget, cap int, logger *slog.Logger, now func() time.Time) *PostQueue {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostQueue{
		poster: poster,
		budget: budget,
		logger: logger,
		cap:    cap,
		now:    now,
	}
}

// Enqueue appends text to the backlog. Non-blocking; fails only when the
// backlog cap is reached.
func (q *PostQueue) Enqueue(text string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cap > 0 && len(q.entries) >= q.cap {
		return ErrQueueFull
	}

	e := entry{id: uuid.NewString(), text: text, enqueuedAt: q.now()}
	q.entries = append(q.entries, e)
	q.logger.Debug("enqueued post", "entry_id", e.id, "backlog", len(q.entries))

	return nil
}

// Len reports the current backlog size.
func (q *PostQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// DrainTick attempts to post the head entry. It does nothing when the
// backlog is empty, a drain is already in flight, or the inter-post
// interval has not elapsed. Only a successful send removes the head.
func (q *PostQueue) DrainTick(ctx context.Context) {
	q.mu.Lock()
	if q.busy || len(q.entries) == 0 || !q.budget.ReadyToSend() {
		q.mu.Unlock()
		return
	}
	head := q.entries[0]
	q.busy = true
	q.mu.Unlock()

	postID, err := q.poster.Post(ctx, head.text)

	q.mu.Lock()
	q.busy = false
	if err != nil {
		q.mu.Unlock()
		q.logger.Warn("post failed, will retry", "entry_id", head.id, "error", err)
		return
	}
	q.entries = q.entries[1:]
	backlog := len(q.entries)
	q.budget.RecordPost()
	q.mu.Unlock()

	q.logger.Info("posted",
		"entry_id", head.id,
		"post_id", postID,
		"posts_today", q.budget.PostsToday(),
		"backlog", backlog,
	)
}

// Run drains the queue on a fixed period until the context is cancelled.
func (q *PostQueue) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.DrainTick(ctx)
		}
	}
}
