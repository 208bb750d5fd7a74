package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pdfchat resources.
	uriScheme = "pdfchat://"

	historyURI = uriScheme + "history"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Documents with saved conversations",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: historyURI + "/{document}",
		Name:        "document-history",
		Description: "Saved conversation for a specific document",
		MIMEType:    "application/json",
	}, s.handleDocumentHistoryResource)
}

// handleHistoryResource lists saved conversations.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.ports.History.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type historyInfo struct {
		Document string `json:"document"`
		Entries  int    `json:"entries"`
		URI      string `json:"uri"`
	}

	infos := make([]historyInfo, len(summaries))
	for i, summary := range summaries {
		infos[i] = historyInfo{
			Document: summary.Document,
			Entries:  summary.Entries,
			URI:      historyURI + "/" + url.PathEscape(summary.Document),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleDocumentHistoryResource returns the saved log of one document.
func (s *Server) handleDocumentHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	document := extractDocument(req.Params.URI)
	if document == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.History.Entries(ctx, document)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return jsonResult(req.Params.URI, entries)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocument extracts the document name from a URI like pdfchat://history/{document}.
func extractDocument(uri string) string {
	const prefix = historyURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	document, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return document
}
