package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/goliatone/go-docsync/internal/docs"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	// Name is reported to MCP clients during initialization.
	Name = "go-docsync"
	// Version is the tool surface version.
	Version = "0.1.0"

	ToolGetDocument     = "get_document"
	ToolSearchDocuments = "search_documents"
	ToolGetNavigation   = "get_navigation"
)

// Reader is the read path the tools are served from.
type Reader interface {
	Get(ctx context.Context, path string) (*interfaces.Page, error)
	Search(ctx context.Context, query string) ([]interfaces.SearchResult, error)
	Navigation(ctx context.Context) (interfaces.NavigationTree, error)
}

type GetDocumentRequest struct {
	Path string `json:"path"`
}

type GetDocumentResponse struct {
	Document *interfaces.Page `json:"document"`
}

type SearchDocumentsRequest struct {
	Query string `json:"query"`
}

type SearchDocumentsResponse struct {
	Query   string                    `json:"query"`
	Results []interfaces.SearchResult `json:"results"`
}

type GetNavigationRequest struct{}

type GetNavigationResponse struct {
	Sections interfaces.NavigationTree `json:"sections"`
}

// NewServer registers the read-only documentation tools over reader.
func NewServer(reader Reader, logger interfaces.Logger) *server.MCPServer {
	if logger == nil {
		logger = logging.NoOp()
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	getDocument := mcp.NewTool(ToolGetDocument,
		mcp.WithDescription("Get a rendered documentation page by path. An empty path returns the site index and a folder path returns its README."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Description("Document path without extension, e.g. 'forms/fields/select'"),
		),
	)
	s.AddTool(getDocument, mcp.NewTypedToolHandler(getDocumentHandler(reader, logger)))

	searchDocuments := mcp.NewTool(ToolSearchDocuments,
		mcp.WithDescription("Search documentation titles and content. Queries shorter than two characters return no results."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to look for"),
		),
	)
	s.AddTool(searchDocuments, mcp.NewTypedToolHandler(searchDocumentsHandler(reader, logger)))

	getNavigation := mcp.NewTool(ToolGetNavigation,
		mcp.WithDescription("Get the ordered documentation sidebar grouped by section"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(getNavigation, mcp.NewTypedToolHandler(getNavigationHandler(reader, logger)))

	return s
}

func getDocumentHandler(reader Reader, logger interfaces.Logger) func(ctx context.Context, request mcp.CallToolRequest, args GetDocumentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetDocumentRequest) (*mcp.CallToolResult, error) {
		page, err := reader.Get(ctx, args.Path)
		if err != nil {
			if docs.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", docs.NormalizePath(args.Path))), nil
			}
			logger.WithContext(ctx).Error("docs.mcp.get_document_failed", "path", args.Path, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("failed to get document: %v", err)), nil
		}
		return jsonResult(GetDocumentResponse{Document: page})
	}
}

func searchDocumentsHandler(reader Reader, logger interfaces.Logger) func(ctx context.Context, request mcp.CallToolRequest, args SearchDocumentsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchDocumentsRequest) (*mcp.CallToolResult, error) {
		results, err := reader.Search(ctx, args.Query)
		if err != nil {
			logger.WithContext(ctx).Error("docs.mcp.search_failed", "query", args.Query, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("failed to search documents: %v", err)), nil
		}
		if results == nil {
			results = []interfaces.SearchResult{}
		}
		return jsonResult(SearchDocumentsResponse{Query: args.Query, Results: results})
	}
}

func getNavigationHandler(reader Reader, logger interfaces.Logger) func(ctx context.Context, request mcp.CallToolRequest, args GetNavigationRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, _ GetNavigationRequest) (*mcp.CallToolResult, error) {
		tree, err := reader.Navigation(ctx)
		if err != nil {
			logger.WithContext(ctx).Error("docs.mcp.navigation_failed", "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("failed to build navigation: %v", err)), nil
		}
		if tree == nil {
			tree = interfaces.NavigationTree{}
		}
		return jsonResult(GetNavigationResponse{Sections: tree})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
