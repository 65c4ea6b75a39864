// Package mcp exposes content reads as MCP tools so agents can browse the
// CMS over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/canopy/pkg/domain"
)

// Queries defines the read surface the MCP tools expose.
type Queries interface {
	Page(ctx context.Context, slug string) (*domain.Page, error)
	ArticlesPage(ctx context.Context, tag string, page, pageSize int) (*domain.ArticleList, error)
	ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error)
}

// Server wraps the query layer and exposes it as an MCP server.
type Server struct {
	queries   Queries
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(queries Queries, version string) *Server {
	s := &Server{
		queries:   queries,
		mcpServer: server.NewMCPServer("canopy-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

type pageArgs struct {
	Slug string `mapstructure:"slug"`
}

type listArgs struct {
	Tag      string `mapstructure:"tag"`
	Page     int    `mapstructure:"page"`
	PageSize int    `mapstructure:"page_size"`
}

type articleArgs struct {
	Slug string `mapstructure:"slug"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Fetch a landing page and its content blocks. Omit slug for the site landing page."),
		mcp.WithString("slug", mcp.Description("Page slug (optional)")),
	), s.handleGetPage)

	s.mcpServer.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List one page of articles, newest first, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Tag title to filter by (optional)")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1 (optional)")),
		mcp.WithNumber("page_size", mcp.Description("Items per page (optional)")),
	), s.handleListArticles)

	s.mcpServer.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Fetch one article by slug, including its markdown content."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug")),
	), s.handleGetArticle)
}

func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args pageArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := s.queries.Page(ctx, args.Slug)
	if err != nil {
		return toolError("get_page", err), nil
	}
	return jsonResult(page)
}

func (s *Server) handleListArticles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := s.queries.ArticlesPage(ctx, args.Tag, args.Page, args.PageSize)
	if err != nil {
		return toolError("list_articles", err), nil
	}
	return jsonResult(list)
}

func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args articleArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Slug == "" {
		return mcp.NewToolResultError("slug is required"), nil
	}

	article, err := s.queries.ArticleBySlug(ctx, args.Slug)
	if err != nil {
		return toolError("get_article", err), nil
	}
	return jsonResult(article)
}

// decodeArgs maps the loosely typed tool arguments onto a typed struct.
// WeaklyTypedInput covers JSON numbers arriving as float64.
func decodeArgs(request mcp.CallToolRequest, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultError("not found")
	}
	slog.Error("MCP tool failed", "tool", tool, "err", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}
