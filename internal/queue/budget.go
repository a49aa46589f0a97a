package queue

import (
	"sync"
	"time"
)

// Budget tracks the rolling posting allowance shared by the discovery loop
// and the drain loop: the daily cap and the minimum inter-post interval.
// All fields live behind accessor methods so invariants hold under
// concurrent use.
type Budget struct {
	mu          sync.Mutex
	dailyCap    int
	minInterval time.Duration
	postsToday  int
	lastPost    time.Time

	now func() time.Time
}

// NewBudget builds a budget; a nil clock uses time.Now.
func NewBudget(dailyCap int, minInterval time.Duration, now func() time.Time) *Budget {
	if now == nil {
		now = time.Now
	}
	return &Budget{
		dailyCap:    dailyCap,
		minInterval: minInterval,
		now:         now,
	}
}

// CanPost reports whether the daily cap still has room. Checked by the
// discovery loop before it spends effort rating candidates.
func (b *Budget) CanPost() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.postsToday < b.dailyCap
}

// ReadyToSend reports whether the minimum interval since the last
// successful post has elapsed.
func (b *Budget) ReadyToSend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastPost.IsZero() || b.now().Sub(b.lastPost) >= b.minInterval
}

// RecordPost marks one successful outbound post.
func (b *Budget) RecordPost() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastPost = b.now()
	b.postsToday++
}

// PostsToday returns the current daily counter, for log lines.
func (b *Budget) PostsToday() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.postsToday
}

// ResetDay clears the daily counter. Runs on its own 24h timer,
// independent of the seen-set reset.
func (b *Budget) ResetDay() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.postsToday = 0
}
