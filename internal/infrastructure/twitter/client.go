package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"pubmedbot/internal/config"
	"pubmedbot/internal/domain"
	"pubmedbot/internal/ports"
)

const defaultBaseURL = "https://api.twitter.com"

// maxPostRunes is the platform length ceiling; longer text is truncated
// with a trailing ellipsis at this boundary, not in the composer.
const maxPostRunes = 280

var handleExpr = regexp.MustCompile(`@\w+\s*`)

// Client wraps the v2 API: posting, replying, and polling for mentions.
type Client struct {
	baseURL     string
	bearerToken string
	username    string
	pollEvery   time.Duration
	client      *http.Client
	logger      *slog.Logger

	mu      sync.Mutex
	sinceID string
}

var _ ports.Messenger = (*Client)(nil)

// Option adjusts the client, mainly for tests.
type Option func(*Client)

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient builds a platform client from configuration.
func NewClient(cfg config.TwitterConfig, pollEvery time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:     defaultBaseURL,
		bearerToken: cfg.BearerToken,
		username:    cfg.Username,
		pollEvery:   pollEvery,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post publishes a standalone tweet and returns its id.
func (c *Client) Post(ctx context.Context, text string) (string, error) {
	return c.send(ctx, map[string]any{"text": Truncate(text)})
}

// Reply publishes a tweet in reply to parentID and returns its id.
func (c *Client) Reply(ctx context.Context, parentID, text string) (string, error) {
	return c.send(ctx, map[string]any{
		"text":  Truncate(text),
		"reply": map[string]string{"in_reply_to_tweet_id": parentID},
	})
}

func (c *Client) send(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("twitter error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode tweet response: %w", err)
	}

	return result.Data.ID, nil
}

// SubscribeToMentions polls the recent-search endpoint and invokes handle
// for every new mention, with @-handles stripped from the text. Poll
// failures are logged and retried on the next cycle; only context
// cancellation ends the loop.
func (c *Client) SubscribeToMentions(ctx context.Context, handle func(domain.Mention)) error {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		mentions, err := c.fetchMentions(ctx)
		if err != nil {
			c.logger.Warn("mention poll failed", "error", err)
		}
		for _, m := range mentions {
			handle(m)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchMentions(ctx context.Context) ([]domain.Mention, error) {
	params := url.Values{}
	params.Set("query", "@"+c.username)
	params.Set("tweet.fields", "author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	c.mu.Lock()
	if c.sinceID != "" {
		params.Set("since_id", c.sinceID)
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search mentions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mention search returned %s", resp.Status)
	}

	var result struct {
		Data []struct {
			ID       string `json:"id"`
			Text     string `json:"text"`
			AuthorID string `json:"author_id"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"users"`
		} `json:"includes"`
		Meta struct {
			NewestID string `json:"newest_id"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode mentions: %w", err)
	}

	usernames := make(map[string]string, len(result.Includes.Users))
	for _, user := range result.Includes.Users {
		usernames[user.ID] = user.Username
	}

	mentions := make([]domain.Mention, 0, len(result.Data))
	for _, tweet := range result.Data {
		mentions = append(mentions, domain.Mention{
			ID:   tweet.ID,
			Text: strings.TrimSpace(handleExpr.ReplaceAllString(tweet.Text, "")),
			Author: domain.MentionAuthor{
				ID:       tweet.AuthorID,
				Username: usernames[tweet.AuthorID],
			},
		})
	}

	if result.Meta.NewestID != "" {
		c.mu.Lock()
		c.sinceID = result.Meta.NewestID
		c.mu.Unlock()
	}

	return mentions, nil
}

// Truncate enforces the platform length ceiling, marking cut text with an
// ellipsis.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxPostRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxPostRunes-1]) + "…"
}
