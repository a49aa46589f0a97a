package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakePoster struct {
	mu    sync.Mutex
	posts []string
	fail  bool
}

func (p *fakePoster) Post(_ context.Context, text string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return "", errors.New("platform down")
	}
	p.posts = append(p.posts, text)
	return "post-id", nil
}

func (p *fakePoster) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func (p *fakePoster) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.posts...)
}

func newTestQueue(t *testing.T, poster *fakePoster, clock *fakeClock, minInterval time.Duration) (*PostQueue, *Budget) {
	t.Helper()
	budget := NewBudget(10, minInterval, clock.Now)
	return New(poster, budget, 5, nil, clock.Now), budget
}

func TestQueueDrainsInFIFOOrder(t *testing.T) {
	clock := newFakeClock()
	poster := &fakePoster{}
	q, budget := newTestQueue(t, poster, clock, 15*time.Minute)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))

	q.DrainTick(context.Background())
	assert.Equal(t, []string{"a"}, poster.sent())
	assert.Equal(t, 1, budget.PostsToday())

	// Next tick arrives before the interval elapsed: nothing happens.
	q.DrainTick(context.Background())
	assert.Equal(t, []string{"a"}, poster.sent())

	clock.Advance(15 * time.Minute)
	q.DrainTick(context.Background())
	assert.Equal(t, []string{"a", "b"}, poster.sent())
	assert.Equal(t, 2, budget.PostsToday())
	assert.Equal(t, 0, q.Len())
}

func TestQueueFailureKeepsHead(t *testing.T) {
	clock := newFakeClock()
	poster := &fakePoster{}
	q, budget := newTestQueue(t, poster, clock, time.Minute)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))

	poster.setFail(true)
	q.DrainTick(context.Background())
	assert.Empty(t, poster.sent())
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 0, budget.PostsToday())

	// The failed entry retries at the head; b is not attempted out of order.
	poster.setFail(false)
	q.DrainTick(context.Background())
	assert.Equal(t, []string{"a"}, poster.sent())
	assert.Equal(t, 1, q.Len())
}

func TestQueueRejectsWhenFull(t *testing.T) {
	clock := newFakeClock()
	q, _ := newTestQueue(t, &fakePoster{}, clock, time.Minute)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue("x"))
	}

	assert.ErrorIs(t, q.Enqueue("overflow"), ErrQueueFull)
	assert.Equal(t, 5, q.Len())
}

func TestBudgetDailyCapAndReset(t *testing.T) {
	clock := newFakeClock()
	budget := NewBudget(2, 0, clock.Now)

	assert.True(t, budget.CanPost())
	budget.RecordPost()
	budget.RecordPost()
	assert.False(t, budget.CanPost())
	assert.Equal(t, 2, budget.PostsToday())

	budget.ResetDay()
	assert.True(t, budget.CanPost())
	assert.Equal(t, 0, budget.PostsToday())
}

func TestBudgetMinInterval(t *testing.T) {
	clock := newFakeClock()
	budget := NewBudget(10, 10*time.Minute, clock.Now)

	// Never posted yet: always ready.
	assert.True(t, budget.ReadyToSend())

	budget.RecordPost()
	assert.False(t, budget.ReadyToSend())

	clock.Advance(9 * time.Minute)
	assert.False(t, budget.ReadyToSend())

	clock.Advance(time.Minute)
	assert.True(t, budget.ReadyToSend())
}
