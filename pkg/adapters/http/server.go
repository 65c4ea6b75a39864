// Package http exposes the query layer as a small JSON preview server. It is
// meant for local development: point a browser or frontend at it instead of
// talking to the CMS directly, and reads go through the shared cache.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/canopy/pkg/domain"
)

// Queries defines the read surface the server exposes.
type Queries interface {
	Page(ctx context.Context, slug string) (*domain.Page, error)
	ArticlesPage(ctx context.Context, tag string, page, pageSize int) (*domain.ArticleList, error)
	ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error)
}

// Server serves cached content reads over JSON.
type Server struct {
	queries  Queries
	gatherer prometheus.Gatherer
}

// Option configures the server.
type Option func(*Server)

// WithGatherer exposes the given metrics registry on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewHandler builds the HTTP handler for the preview server.
func NewHandler(queries Queries, opts ...Option) http.Handler {
	s := &Server{queries: queries}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(allowCORS)

	r.Get("/healthz", s.health)
	r.Get("/pages/{slug}", s.getPage)
	r.Get("/pages", s.getPage)
	r.Get("/articles", s.listArticles)
	r.Get("/articles/{slug}", s.getArticle)

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getPage handles GET /pages and GET /pages/{slug}. The bare /pages route
// serves the landing page.
func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := s.queries.Page(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// listArticles handles GET /articles?tag=&page=&pageSize=.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intParam(q.Get("page"), 1)
	pageSize := intParam(q.Get("pageSize"), 0)

	list, err := s.queries.ArticlesPage(r.Context(), q.Get("tag"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.queries.ArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes: ErrNotFound is the caller's
// 404, a StatusError means the upstream CMS misbehaved and surfaces as 502.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.As(err, &statusErr):
		code = http.StatusBadGateway
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
