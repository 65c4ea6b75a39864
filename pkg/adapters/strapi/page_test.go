package strapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landingPageJSON = `{
	"data": {
		"id": 1,
		"documentId": "home",
		"title": "Home",
		"description": "Landing page",
		"blocks": [
			{"__component": "blocks.hero-section", "id": 1, "heading": "Hello", "image": {"id": 2, "url": "/uploads/hero.png"}},
			{"__component": "blocks.section-heading", "id": 2, "heading": "Features"},
			{"__component": "blocks.unknown-type", "id": 3, "payload": "future"},
			{"__component": "blocks.markdown", "id": 4, "content": "**bold**"}
		]
	},
	"meta": {}
}`

func TestClient_Page_Landing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/landing-page", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("populate[blocks][populate]"))
		fmt.Fprint(w, landingPageJSON)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL)
	require.NoError(t, err)

	page, err := client.Page(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Home", page.Title)
	require.Len(t, page.Blocks, 4, "one decoded block per authored block, in order")

	hero, ok := page.Blocks[0].(domain.HeroSection)
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/uploads/hero.png", hero.Image.URL, "relative media resolves against the base URL")

	unknown, ok := page.Blocks[2].(domain.UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "blocks.unknown-type", unknown.Kind())
}

func TestClient_Page_LandingUnpublished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Not Found"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Page(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Page_BySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pages", r.URL.Path)
		if r.URL.Query().Get("filters[slug][$eq]") != "about" {
			fmt.Fprint(w, `{"data": [], "meta": {}}`)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": 9, "title": "About", "blocks": []}], "meta": {}}`)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL)
	require.NoError(t, err)

	page, err := client.Page(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, "About", page.Title)

	_, err = client.Page(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveMedia(t *testing.T) {
	client, err := New("https://cms.example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://cms.example.com/uploads/a.png", client.ResolveMedia("/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.net/b.png", client.ResolveMedia("https://cdn.example.net/b.png"))
	assert.Equal(t, "", client.ResolveMedia(""))
}
