package canopy_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/domain"
)

// cmsBackend fakes the minimal CMS surface the client talks to: a landing
// page with a block zone and a paginated article collection.
type cmsBackend struct {
	landingHits  atomic.Int64
	articlesHits atomic.Int64
}

func (b *cmsBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/landing-page", func(w http.ResponseWriter, r *http.Request) {
		b.landingHits.Add(1)
		fmt.Fprint(w, `{"data":{
			"id":1,"documentId":"lp","title":"Home","description":"Welcome",
			"blocks":[
				{"__component":"blocks.hero-section","id":10,"heading":"Build things","theme":"orange"},
				{"__component":"blocks.video-embed","id":11,"url":"https://example.com/v"},
				{"__component":"blocks.section-heading","id":12,"heading":"Latest"}
			]
		}}`)
	})
	mux.HandleFunc("GET /api/articles", func(w http.ResponseWriter, r *http.Request) {
		b.articlesHits.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("pagination[page]"))
		if page <= 0 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pagination[pageSize]"))
		if pageSize <= 0 {
			pageSize = 10
		}

		const total = 12
		lo := min((page-1)*pageSize, total)
		hi := min(lo+pageSize, total)

		items := make([]map[string]any, 0, hi-lo)
		for n := lo + 1; n <= hi; n++ {
			items = append(items, map[string]any{
				"id":    n,
				"title": fmt.Sprintf("Article %d", n),
				"slug":  fmt.Sprintf("article-%d", n),
			})
		}
		resp := map[string]any{
			"data": items,
			"meta": map[string]any{"pagination": map[string]any{
				"page": page, "pageSize": pageSize,
				"pageCount": (total + pageSize - 1) / pageSize, "total": total,
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newTestClient(t *testing.T, opts ...canopy.Option) (*canopy.Client, *cmsBackend) {
	t.Helper()
	backend := &cmsBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	client, err := canopy.New(srv.URL, opts...)
	require.NoError(t, err)
	return client, backend
}

func TestRenderPage_OneUnitPerBlock(t *testing.T) {
	client, _ := newTestClient(t)

	units, err := client.RenderPage(context.Background(), "")
	require.NoError(t, err)

	// Three blocks in, three units out, unknown component included.
	require.Len(t, units, 3)
	assert.Contains(t, units[0], "Build things")
	assert.Contains(t, units[1], "blocks.video-embed")
	assert.Contains(t, units[2], "Latest")
}

func TestPage_SecondReadIsCached(t *testing.T) {
	client, backend := newTestClient(t)

	ctx := context.Background()
	first, err := client.Page(ctx, "")
	require.NoError(t, err)
	second, err := client.Page(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, int64(1), backend.landingHits.Load())
}

func TestPage_PreservesUnknownBlock(t *testing.T) {
	client, _ := newTestClient(t)

	page, err := client.Page(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Blocks, 3)

	unknown, ok := page.Blocks[1].(domain.UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "blocks.video-embed", unknown.Kind())
	assert.Equal(t, "https://example.com/v", unknown.Fields["url"])
}

func TestArticles_PagerWalksCollection(t *testing.T) {
	client, backend := newTestClient(t, canopy.WithPageSize(5))

	pager := client.Articles("")
	items, err := pager.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 12)
	assert.Equal(t, "article-1", items[0].Slug)
	assert.Equal(t, 12, pager.Total())
	assert.False(t, pager.HasNext())
	assert.Equal(t, int64(3), backend.articlesHits.Load())
}

func TestArticlesPage_Direct(t *testing.T) {
	client, _ := newTestClient(t)

	list, err := client.ArticlesPage(context.Background(), "", 2, 10)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.False(t, list.Pagination.HasNext())
}
