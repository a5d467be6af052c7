// Package mcpserver exposes the knowledge-base operations as MCP tools
// and resources over stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/recall/internal/apperr"
	"github.com/starford/recall/internal/kb"
	"github.com/starford/recall/internal/storage"
)

// Resource URIs.
const (
	GuidelinesURI = "recall://guidelines"
	TreeURI       = "recall://tree"
)

// RootFunc returns the current storage root. It is invoked once per call.
type RootFunc func() string

// Server wraps the MCP server with the knowledge-base tools.
type Server struct {
	mcp    *server.MCPServer
	root   RootFunc
	logger *slog.Logger
}

// New creates a new MCP server with all tools and resources registered.
func New(name, version string, root RootFunc, logger *slog.Logger) *Server {
	s := &Server{root: root, logger: logger}

	s.mcp = server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("kbRead",
		mcp.WithTitleAnnotation("Recall"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Search saved entries by keyword from your persistent memory. "+
			"Pass keywords in the query parameter (e.g. \"ui design\"); leave it empty to see the most recent entries. "+
			"When a topic listed by kbList is relevant, use this to recall the full details. "+
			"Always check your memory before searching the codebase."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Search terms to look up in your memory, e.g. \"ui design\" or \"workflow\"")),
	), s.kbRead)

	s.mcp.AddTool(mcp.NewTool("kbWrite",
		mcp.WithTitleAnnotation("Remember"),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDescription("Save something to your persistent memory. "+
			"Use this when you learn something worth remembering (decisions, preferences, patterns, solutions, conventions) "+
			"so you can recall it in future sessions. Writing the same title again replaces the entry."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title for the knowledge base entry")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The content to save")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Optional tags for categorization")),
		mcp.WithString("directory",
			mcp.Description("Optional subdirectory within the knowledge base to place the entry, "+
				"e.g. \"my-project\" or \"frontend/patterns\". Created automatically if it doesn't exist.")),
	), s.kbWrite)

	s.mcp.AddTool(mcp.NewTool("kbList",
		mcp.WithTitleAnnotation("List memory"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Recall what you know. Returns the topics stored in your persistent memory as a tree. "+
			"Use this at the start of every conversation and before answering any question where saved context may help. "+
			"This is cheap, use it freely."),
	), s.kbList)

	s.mcp.AddTool(mcp.NewTool("kbDelete",
		mcp.WithTitleAnnotation("Forget"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithDescription("Remove an entry from your persistent memory when consolidating or removing outdated entries. "+
			"Pass the relative file path; use kbList first to see exact paths."),
		mcp.WithString("relativePath", mcp.Required(),
			mcp.Description("Path of the file to delete, relative to the knowledge base directory, "+
				"e.g. \"old-notes.md\" or \"subdir/file.md\"")),
	), s.kbDelete)

	s.mcp.AddResource(
		mcp.NewResource(GuidelinesURI, "Librarian guidelines",
			mcp.WithResourceDescription("Organizational guidelines for the knowledge base (LIBRARIAN.md)."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuidelines,
	)
	s.mcp.AddResource(
		mcp.NewResource(TreeURI, "Knowledge base tree",
			mcp.WithResourceDescription("Current tree of entries in the knowledge base."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readTree,
	)

	return s
}

// ServeStdio serves the MCP protocol on the given streams until ctx is done.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "mcp: ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns a streamable HTTP server mounted at endpoint.
func (s *Server) HTTPHandler(endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(endpoint))
}

// NotifyChanged tells connected clients that the knowledge base changed.
func (s *Server) NotifyChanged(path string) {
	s.mcp.SendNotificationToAllClients("notifications/resources/updated", map[string]any{
		"uri": TreeURI,
	})
	s.logger.Debug("mcp: change notified", slog.String("path", path))
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) kbRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := kb.Read(ctx, s.root(), kb.ReadParams{Query: req.GetString("query", "")})
	return s.toolResult("kbRead", "reading", res, err), nil
}

func (s *Server) kbWrite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := kb.Write(ctx, s.root(), kb.WriteParams{
		Title:     req.GetString("title", ""),
		Content:   req.GetString("content", ""),
		Tags:      req.GetStringSlice("tags", nil),
		Directory: req.GetString("directory", ""),
	})
	return s.toolResult("kbWrite", "writing to", res, err), nil
}

func (s *Server) kbList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := kb.List(ctx, s.root())
	return s.toolResult("kbList", "listing", res, err), nil
}

func (s *Server) kbDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := kb.Delete(ctx, s.root(), kb.DeleteParams{RelativePath: req.GetString("relativePath", "")})
	return s.toolResult("kbDelete", "deleting from", res, err), nil
}

func (s *Server) toolResult(tool, verb, text string, err error) *mcp.CallToolResult {
	if err != nil {
		s.logger.Error("tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
		return mcp.NewToolResultError(fmt.Sprintf("Error %s knowledge base: %s", verb, err.Error()))
	}
	s.logger.Debug("tool done", slog.String("tool", tool))
	return mcp.NewToolResultText(text)
}

func (s *Server) readGuidelines(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := os.ReadFile(filepath.Join(s.root(), storage.GuidelinesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", storage.GuidelinesFile, apperr.ErrNotFound)
		}
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuidelinesURI,
			MIMEType: "text/markdown",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readTree(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tree, err := kb.List(ctx, s.root())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TreeURI,
			MIMEType: "text/plain",
			Text:     tree,
		},
	}, nil
}
