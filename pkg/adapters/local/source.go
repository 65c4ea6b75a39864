// Package local implements ports.ContentSource over a loam repository of
// markdown documents. It serves development and fixtures without a CMS: each
// article is one markdown file whose frontmatter carries the scalar fields,
// with the body as the article content.
package local

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// ArticleMetadata is the frontmatter of a local article document.
// It uses "mapstructure" tags to match the YAML frontmatter keys.
type ArticleMetadata struct {
	Title       string   `json:"title" mapstructure:"title"`
	Slug        string   `json:"slug" mapstructure:"slug"`
	Description string   `json:"description" mapstructure:"description"`
	Author      string   `json:"author" mapstructure:"author"`
	Tags        []string `json:"tags" mapstructure:"tags"`
	PublishedAt string   `json:"published_at" mapstructure:"published_at"`
}

// Source adapts a loam repository to ports.ContentSource. The collection is
// small by construction (a fixtures directory), so every call re-reads the
// repository; pagination semantics match the remote source exactly.
type Source struct {
	repo *loam.TypedRepository[ArticleMetadata]
}

var _ ports.ContentSource = (*Source)(nil)

// New opens the markdown directory at dir read-only.
func New(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return NewFromRepository(repo), nil
}

// NewFromRepository wraps an existing loam repository.
func NewFromRepository(repo core.Repository) *Source {
	return &Source{repo: loam.NewTypedRepository[ArticleMetadata](repo)}
}

const defaultPageSize = 10

// Articles lists one page of the local collection, newest first.
func (s *Source) Articles(ctx context.Context, q ports.ArticlesQuery) (*domain.ArticleList, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}

	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	matched := all
	if q.Tag != "" {
		matched = nil
		for _, a := range all {
			for _, tag := range a.Tags {
				if tag.Title == q.Tag {
					matched = append(matched, a)
					break
				}
			}
		}
	}

	total := len(matched)
	pageCount := (total + q.PageSize - 1) / q.PageSize
	if pageCount == 0 {
		pageCount = 1
	}
	lo := min((q.Page-1)*q.PageSize, total)
	hi := min(lo+q.PageSize, total)

	items := make([]domain.Article, hi-lo)
	copy(items, matched[lo:hi])
	return &domain.ArticleList{
		Items: items,
		Pagination: domain.Pagination{
			Page:      q.Page,
			PageSize:  q.PageSize,
			PageCount: pageCount,
			Total:     total,
		},
	}, nil
}

// ArticleBySlug looks up one article. Missing slugs return domain.ErrNotFound.
func (s *Source) ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.Slug == slug {
			article := a
			return &article, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Page serves a landing page from the document matching slug (empty slug
// maps to "home"), wrapping the markdown body as a single block.
func (s *Source) Page(ctx context.Context, slug string) (*domain.Page, error) {
	if slug == "" {
		slug = "home"
	}
	article, err := s.ArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &domain.Page{
		ID:          article.ID,
		DocumentID:  article.DocumentID,
		Title:       article.Title,
		Description: article.Description,
		Blocks: domain.Blocks{
			domain.MarkdownBlock{ID: article.ID, Content: article.Content},
		},
		PublishedAt: article.PublishedAt,
	}, nil
}

func (s *Source) all(ctx context.Context) ([]domain.Article, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	articles := make([]domain.Article, 0, len(docs))
	for i, doc := range docs {
		full, err := s.repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
		}
		articles = append(articles, toArticle(i+1, full.ID, full.Data, full.Content))
	}

	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		}
		return articles[i].Slug < articles[j].Slug
	})
	return articles, nil
}

func toArticle(id int, docID string, meta ArticleMetadata, content string) domain.Article {
	slug := meta.Slug
	if slug == "" {
		base := filepath.Base(docID)
		slug = strings.TrimSuffix(base, filepath.Ext(base))
	}

	a := domain.Article{
		ID:          id,
		DocumentID:  docID,
		Title:       meta.Title,
		Slug:        slug,
		Description: meta.Description,
		Content:     strings.TrimSpace(content),
	}
	if a.Title == "" {
		a.Title = slug
	}
	if meta.Author != "" {
		a.Author = &domain.Author{ID: id, Name: meta.Author}
	}
	for i, tag := range meta.Tags {
		a.Tags = append(a.Tags, domain.Tag{ID: i + 1, Title: tag})
	}
	a.PublishedAt = parseWhen(meta.PublishedAt)
	return a
}

func parseWhen(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
