// Package strapi adapts a Strapi-style headless CMS REST API to the
// ports.ContentSource interface: GET requests on singular and plural
// resources returning a {data, meta.pagination} JSON envelope.
package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/metrics"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

const (
	defaultRetries = 2
	defaultTimeout = 10 * time.Second
	retryBackoff   = 250 * time.Millisecond
)

// Client is a thin HTTP client for the content backend. Retries are bounded
// and applied uniformly here; pagination and caching live above this layer.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
	retries int
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ ports.ContentSource = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRetries bounds the automatic retry count for transport errors and 5xx
// responses. Zero disables retries.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics wires request counters and latency histograms.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		retries: defaultRetries,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the backend response wrapper. Data is an object for singular
// resources and an array for collections.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination domain.Pagination `json:"pagination"`
	} `json:"meta"`
}

// Page fetches a landing page. An empty slug addresses the singular
// landing-page resource; anything else looks up the pages collection.
func (c *Client) Page(ctx context.Context, slug string) (*domain.Page, error) {
	start := time.Now()
	page, err := c.page(ctx, slug)
	c.observe("page", start, err)
	return page, err
}

func (c *Client) page(ctx context.Context, slug string) (*domain.Page, error) {
	var env envelope
	if slug == "" {
		if err := c.get(ctx, "/api/landing-page", pagePopulate(), &env); err != nil {
			var statusErr *domain.StatusError
			if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		if isNull(env.Data) {
			return nil, domain.ErrNotFound
		}
		var page domain.Page
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("decode landing page: %w", err)
		}
		c.resolveBlocks(page.Blocks)
		return &page, nil
	}

	if err := c.get(ctx, "/api/pages", pageBySlug(slug), &env); err != nil {
		return nil, err
	}
	var pages []domain.Page
	if err := json.Unmarshal(env.Data, &pages); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.ErrNotFound
	}
	page := pages[0]
	c.resolveBlocks(page.Blocks)
	return &page, nil
}

// Articles fetches one page of the article collection.
func (c *Client) Articles(ctx context.Context, q ports.ArticlesQuery) (*domain.ArticleList, error) {
	start := time.Now()
	list, err := c.articles(ctx, q)
	c.observe("articles", start, err)
	return list, err
}

func (c *Client) articles(ctx context.Context, q ports.ArticlesQuery) (*domain.ArticleList, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}

	var env envelope
	if err := c.get(ctx, "/api/articles", articlesQueryValues(q), &env); err != nil {
		return nil, err
	}

	var items []domain.Article
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	for i := range items {
		c.resolveArticle(&items[i])
	}
	return &domain.ArticleList{Items: items, Pagination: env.Meta.Pagination}, nil
}

// ArticleBySlug fetches a single article. A slug matching nothing returns
// domain.ErrNotFound; transport and status failures keep their own types so
// callers can tell an empty state from a retry state.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	start := time.Now()
	article, err := c.articleBySlug(ctx, slug)
	c.observe("article", start, err)
	return article, err
}

func (c *Client) articleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var env envelope
	if err := c.get(ctx, "/api/articles", articleBySlug(slug), &env); err != nil {
		return nil, err
	}

	var items []domain.Article
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	article := items[0]
	c.resolveArticle(&article)
	return &article, nil
}

// get performs a GET with bounded retries. Only transport failures and 5xx
// responses retry; 4xx surfaces immediately as *domain.StatusError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out *envelope) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	for attempt := 0; ; attempt++ {
		body, retryable, err := c.do(ctx, u.String())
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response from %s: %w", u.Path, err)
			}
			return nil
		}
		if !retryable || attempt >= c.retries {
			return err
		}
		c.logger.Warn("request failed, retrying", "path", u.Path, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}
	}
}

func (c *Client) do(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode >= http.StatusInternalServerError,
			&domain.StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	return data, false, nil
}

func (c *Client) observe(resource string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	c.metrics.ObserveRequest(resource, outcome, time.Since(start))
}

func isNull(data json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(data))
	return trimmed == "" || trimmed == "null"
}
