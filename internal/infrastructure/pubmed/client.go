package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pubmedbot/internal/config"
	"pubmedbot/internal/domain"
	"pubmedbot/internal/ports"
)

// Client talks to the NCBI E-utilities API for article discovery and
// scrapes the article landing page for abstract text.
type Client struct {
	baseURL    string
	articleURL string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.ResearchSource = (*Client)(nil)

// NewClient wires an HTTP client; nil defaults to a 20s-timeout client.
func NewClient(cfg config.PubMedConfig, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		articleURL: strings.TrimSuffix(cfg.ArticleURL, "/"),
		client:     client,
		logger:     logger,
	}
}

// Search runs an esearch query and resolves the returned ids to article
// metadata. No hits yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("sort", "date")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", limit))

	var result struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/esearch.fcgi?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("esearch %q: %w", query, err)
	}

	if len(result.ESearchResult.IDList) == 0 {
		return nil, nil
	}

	return c.summaries(ctx, result.ESearchResult.IDList)
}

// FetchByID resolves a single article id. A missing id maps to
// domain.ErrNotFound rather than a transport error.
func (c *Client) FetchByID(ctx context.Context, id string) (domain.Article, error) {
	articles, err := c.summaries(ctx, []string{id})
	if err != nil {
		return domain.Article{}, err
	}
	if len(articles) == 0 {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return articles[0], nil
}

// FetchContent scrapes the article landing page for its abstract, which
// currently stands in for full text. Falls back to the metadata abstract
// when the page yields nothing.
func (c *Client) FetchContent(ctx context.Context, article domain.Article) (domain.ArticleContent, error) {
	pageURL := fmt.Sprintf("%s/%s/", c.articleURL, article.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "pubmedbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("fetch article page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ArticleContent{}, fmt.Errorf("article page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("parse article page: %w", err)
	}

	text := strings.TrimSpace(doc.Find("div.abstract-content").First().Text())
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		c.logger.Debug("no abstract on page, using metadata abstract", "article_id", article.ID)
		text = article.Abstract
	}

	return domain.ArticleContent{ID: article.ID, FullText: text}, nil
}

type docSummary struct {
	UID             string `json:"uid"`
	Title           string `json:"title"`
	FullJournalName string `json:"fulljournalname"`
	PubDate         string `json:"pubdate"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ArticleIDs []struct {
		IDType string `json:"idtype"`
		Value  string `json:"value"`
	} `json:"articleids"`
}

func (c *Client) summaries(ctx context.Context, ids []string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("id", strings.Join(ids, ","))

	var result struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/esummary.fcgi?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("esummary: %w", err)
	}

	var uids []string
	if raw, ok := result.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("decode uid list: %w", err)
		}
	}

	if len(uids) == 0 {
		return nil, nil
	}

	abstracts, err := c.abstracts(ctx, uids)
	if err != nil {
		c.logger.Warn("abstract fetch failed, rating will use titles only", "error", err)
	}

	articles := make([]domain.Article, 0, len(uids))
	for _, uid := range uids {
		raw, ok := result.Result[uid]
		if !ok {
			continue
		}
		var doc docSummary
		if err := json.Unmarshal(raw, &doc); err != nil {
			c.logger.Warn("skipping malformed summary", "article_id", uid, "error", err)
			continue
		}
		article := toArticle(uid, doc)
		article.Abstract = abstracts[uid]
		articles = append(articles, article)
	}

	return articles, nil
}

// abstracts resolves the ids to abstract text in one efetch call. The
// esummary envelope carries no abstract, so this is the only metadata-level
// source of body text for the ranking paths.
func (c *Client) abstracts(ctx context.Context, ids []string) (map[string]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("rettype", "abstract")
	params.Set("retmode", "xml")
	params.Set("id", strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/efetch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "pubmedbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned %s", resp.Status)
	}

	var result struct {
		Articles []struct {
			PMID     string   `xml:"MedlineCitation>PMID"`
			Sections []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
		} `xml:"PubmedArticle"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode efetch response: %w", err)
	}

	abstracts := make(map[string]string, len(result.Articles))
	for _, article := range result.Articles {
		text := strings.Join(strings.Fields(strings.Join(article.Sections, " ")), " ")
		if text != "" {
			abstracts[article.PMID] = text
		}
	}

	return abstracts, nil
}

func toArticle(uid string, doc docSummary) domain.Article {
	authors := make([]string, 0, len(doc.Authors))
	for _, author := range doc.Authors {
		authors = append(authors, author.Name)
	}

	var doi string
	for _, id := range doc.ArticleIDs {
		if id.IDType == "doi" {
			doi = id.Value
			break
		}
	}

	return domain.Article{
		ID:          uid,
		Title:       strings.TrimSpace(doc.Title),
		Authors:     authors,
		PublishedAt: doc.PubDate,
		Journal:     doc.FullJournalName,
		DOI:         doi,
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "pubmedbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
