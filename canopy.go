package canopy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/metrics"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/strapi"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
	"github.com/aretw0/canopy/pkg/query"
	"github.com/aretw0/canopy/pkg/render"
)

// Version is the library version, surfaced by the CLI and the MCP server.
const Version = "0.1.0"

// Client is the high-level entry point: a content source behind a caching
// query layer, plus a terminal renderer for the block sequences it returns.
type Client struct {
	source   ports.ContentSource
	cache    ports.CacheStore
	queries  *query.Client
	terminal *render.Terminal
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// Option configures the client.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	source     ports.ContentSource
	cache      ports.CacheStore
	httpClient *http.Client
	token      string
	retries    *int
	pageSize   int
	renderOpts []render.TerminalOption
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSource replaces the Strapi-backed source, e.g. with a local
// markdown directory. The base URL passed to New is ignored.
func WithSource(source ports.ContentSource) Option {
	return func(o *options) { o.source = source }
}

// WithCache replaces the default in-process cache.
func WithCache(cache ports.CacheStore) Option {
	return func(o *options) { o.cache = cache }
}

// WithHTTPClient sets the HTTP client used to reach the CMS.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithToken sends the given API token as a bearer credential.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithRetries bounds retry attempts after the first failed request.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = &n }
}

// WithPageSize sets the default page size for article listings.
func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithRenderOptions configures the terminal renderer.
func WithRenderOptions(opts ...render.TerminalOption) Option {
	return func(o *options) { o.renderOpts = append(o.renderOpts, opts...) }
}

// New creates a client for the CMS at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	source := o.source
	if source == nil {
		strapiOpts := []strapi.Option{
			strapi.WithLogger(logger),
			strapi.WithMetrics(m),
		}
		if o.httpClient != nil {
			strapiOpts = append(strapiOpts, strapi.WithHTTPClient(o.httpClient))
		}
		if o.token != "" {
			strapiOpts = append(strapiOpts, strapi.WithToken(o.token))
		}
		if o.retries != nil {
			strapiOpts = append(strapiOpts, strapi.WithRetries(*o.retries))
		}
		var err error
		source, err = strapi.New(baseURL, strapiOpts...)
		if err != nil {
			return nil, err
		}
	}

	cache := o.cache
	if cache == nil {
		cache = memory.NewCache()
	}

	queryOpts := []query.Option{
		query.WithLogger(logger),
		query.WithMetrics(m),
	}
	if o.pageSize > 0 {
		queryOpts = append(queryOpts, query.WithPageSize(o.pageSize))
	}

	return &Client{
		source:   source,
		cache:    cache,
		queries:  query.New(source, cache, queryOpts...),
		terminal: render.NewTerminal(o.renderOpts...),
		logger:   logger,
		metrics:  m,
		registry: registry,
	}, nil
}

// Page fetches a landing page through the cache. An empty slug means the
// site landing page.
func (c *Client) Page(ctx context.Context, slug string) (*domain.Page, error) {
	return c.queries.Page(ctx, slug)
}

// Article fetches one article by slug through the cache.
func (c *Client) Article(ctx context.Context, slug string) (*domain.Article, error) {
	return c.queries.ArticleBySlug(ctx, slug)
}

// ArticlesPage fetches one page of the article collection.
func (c *Client) ArticlesPage(ctx context.Context, tag string, page, pageSize int) (*domain.ArticleList, error) {
	return c.queries.ArticlesPage(ctx, tag, page, pageSize)
}

// Articles returns a forward-only pager over the collection, optionally
// filtered by tag.
func (c *Client) Articles(tag string) *query.Pager {
	return c.queries.Articles(tag)
}

// RenderPage fetches a page and renders its blocks for the terminal, one
// unit per block in document order.
func (c *Client) RenderPage(ctx context.Context, slug string) ([]string, error) {
	page, err := c.Page(ctx, slug)
	if err != nil {
		return nil, err
	}
	return c.terminal.Render(page.Blocks)
}

// RenderArticle fetches an article and renders it for the terminal.
func (c *Client) RenderArticle(ctx context.Context, slug string) (string, error) {
	article, err := c.Article(ctx, slug)
	if err != nil {
		return "", err
	}
	return c.terminal.Article(article)
}

// Queries exposes the caching query layer for embedding in servers.
func (c *Client) Queries() *query.Client {
	return c.queries
}

// Registry exposes the metrics registry for scraping.
func (c *Client) Registry() *prometheus.Registry {
	return c.registry
}
