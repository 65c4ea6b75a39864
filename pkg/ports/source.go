package ports

import (
	"context"

	"github.com/aretw0/canopy/pkg/domain"
)

// ArticlesQuery narrows one page request of the article collection.
// Tag filters by tag title; empty means unfiltered. Page starts at 1.
type ArticlesQuery struct {
	Page     int
	PageSize int
	Tag      string
}

// ContentSource is the read-only contract every content backend adapter
// implements (remote CMS, local fixtures). Single lookups that match nothing
// return domain.ErrNotFound, never a zero value.
type ContentSource interface {
	// Page fetches a landing page by slug.
	Page(ctx context.Context, slug string) (*domain.Page, error)

	// Articles fetches one page of the article collection.
	Articles(ctx context.Context, q ArticlesQuery) (*domain.ArticleList, error)

	// ArticleBySlug fetches a single article by its slug.
	ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error)
}
