// Package query layers an explicit cache, request coalescing, and forward-only
// pagination on top of a ports.ContentSource. Cache entries are keyed by
// (resource, filter, page) tuples and invalidated explicitly; there is no
// hidden global state.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/metrics"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

const defaultPageSize = 10

// Client is the cached, coalescing view over a content source.
// Concurrent loads of the same key share one upstream round-trip.
type Client struct {
	source   ports.ContentSource
	cache    ports.CacheStore
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Metrics
	pageSize int

	// Article page keys written per filter, so a filter slice can be
	// invalidated without enumerating the whole cache.
	mu   sync.Mutex
	keys map[string]map[string]struct{}
}

type Option func(*Client)

// WithLogger sets the query layer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics wires cache hit/miss counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithPageSize sets the page size pagers request. Defaults to 10.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New creates a query client over source, caching in cache.
func New(source ports.ContentSource, cache ports.CacheStore, opts ...Option) *Client {
	c := &Client{
		source:   source,
		cache:    cache,
		logger:   logging.NewNop(),
		metrics:  metrics.NewNop(),
		pageSize: defaultPageSize,
		keys:     make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func pageKey(slug string) string {
	return "page:" + slug
}

func articlesKey(tag string, page, pageSize int) string {
	return fmt.Sprintf("articles:%s:%d:%d", tag, page, pageSize)
}

func articleKey(slug string) string {
	return "article:" + slug
}

// Page returns the landing page for slug, from cache when possible.
func (c *Client) Page(ctx context.Context, slug string) (*domain.Page, error) {
	var page domain.Page
	err := c.load(ctx, pageKey(slug), &page, func(ctx context.Context) (any, error) {
		return c.source.Page(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ArticlesPage returns one page of the article collection under tag.
func (c *Client) ArticlesPage(ctx context.Context, tag string, page, pageSize int) (*domain.ArticleList, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	key := articlesKey(tag, page, pageSize)
	var list domain.ArticleList
	err := c.load(ctx, key, &list, func(ctx context.Context) (any, error) {
		return c.source.Articles(ctx, ports.ArticlesQuery{Page: page, PageSize: pageSize, Tag: tag})
	})
	if err != nil {
		return nil, err
	}
	c.remember(tag, key)
	return &list, nil
}

// ArticleBySlug returns a single article. Not-found results are never cached.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	err := c.load(ctx, articleKey(slug), &article, func(ctx context.Context) (any, error) {
		return c.source.ArticleBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// InvalidateArticles drops every cached article page fetched under tag.
func (c *Client) InvalidateArticles(ctx context.Context, tag string) error {
	c.mu.Lock()
	keys := c.keys[tag]
	delete(c.keys, tag)
	c.mu.Unlock()

	for key := range keys {
		if err := c.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("invalidate %s: %w", key, err)
		}
	}
	return nil
}

// InvalidateAll empties the cache. Used on manual refresh.
func (c *Client) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	c.keys = make(map[string]map[string]struct{})
	c.mu.Unlock()
	return c.cache.Clear(ctx)
}

func (c *Client) remember(tag, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys[tag] == nil {
		c.keys[tag] = make(map[string]struct{})
	}
	c.keys[tag][key] = struct{}{}
}

// load is the read-through path: cache lookup, then a coalesced fetch on
// miss. The flight runs on a detached context so one consumer's teardown
// cannot fail the fetch for the others; the departing consumer just stops
// waiting and its result is discarded on arrival.
func (c *Client) load(ctx context.Context, key string, out any, fetch func(context.Context) (any, error)) error {
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
	} else if ok {
		if err := json.Unmarshal(data, out); err == nil {
			c.metrics.CacheHits.Inc()
			return nil
		}
		c.logger.Warn("cache entry corrupt, refetching", "key", key)
	} else {
		c.metrics.CacheMisses.Inc()
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		value, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode cache entry %s: %w", key, err)
		}
		if err := c.cache.Set(fctx, key, data); err != nil {
			c.logger.Warn("cache set failed", "key", key, "error", err)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), out)
	}
}
