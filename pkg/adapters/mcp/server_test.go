package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/domain"
)

type fakeQueries struct {
	lastTag      string
	lastPage     int
	lastPageSize int
}

func (f *fakeQueries) Page(ctx context.Context, slug string) (*domain.Page, error) {
	if slug == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.Page{ID: 1, Title: "Landing", Blocks: domain.Blocks{
		domain.SectionHeading{ID: 2, Heading: "Docs"},
	}}, nil
}

func (f *fakeQueries) ArticlesPage(ctx context.Context, tag string, page, pageSize int) (*domain.ArticleList, error) {
	f.lastTag = tag
	f.lastPage = page
	f.lastPageSize = pageSize
	return &domain.ArticleList{
		Items:      []domain.Article{{ID: 1, Slug: "first"}},
		Pagination: domain.Pagination{Page: 1, PageSize: 10, PageCount: 1, Total: 1},
	}, nil
}

func (f *fakeQueries) ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	if slug == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.Article{ID: 1, Slug: slug, Title: "First"}, nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGetPageTool(t *testing.T) {
	s := NewServer(&fakeQueries{}, "test")

	res, err := s.handleGetPage(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var page domain.Page
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &page))
	assert.Equal(t, "Landing", page.Title)
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, domain.KindSectionHeading, page.Blocks[0].Kind())
}

func TestGetPageTool_NotFound(t *testing.T) {
	s := NewServer(&fakeQueries{}, "test")

	res, err := s.handleGetPage(context.Background(), callRequest(map[string]any{"slug": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListArticlesTool_DecodesNumbers(t *testing.T) {
	queries := &fakeQueries{}
	s := NewServer(queries, "test")

	// JSON-RPC delivers numbers as float64.
	res, err := s.handleListArticles(context.Background(), callRequest(map[string]any{
		"tag":       "go",
		"page":      float64(2),
		"page_size": float64(5),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, "go", queries.lastTag)
	assert.Equal(t, 2, queries.lastPage)
	assert.Equal(t, 5, queries.lastPageSize)

	var list domain.ArticleList
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &list))
	assert.Len(t, list.Items, 1)
}

func TestGetArticleTool(t *testing.T) {
	s := NewServer(&fakeQueries{}, "test")

	res, err := s.handleGetArticle(context.Background(), callRequest(map[string]any{"slug": "first"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var article domain.Article
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &article))
	assert.Equal(t, "first", article.Slug)
}

func TestGetArticleTool_RequiresSlug(t *testing.T) {
	s := NewServer(&fakeQueries{}, "test")

	res, err := s.handleGetArticle(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
