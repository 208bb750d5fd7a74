package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	Path     string `json:"path" jsonschema:"path to a local PDF file"`
	Question string `json:"question" jsonschema:"the question to ask about the document"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Document string   `json:"document"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// ListHistoryInput is the (empty) input schema for the list_history tool.
type ListHistoryInput struct{}

// ListHistoryOutput is the output schema for the list_history tool.
type ListHistoryOutput struct {
	Documents []HistorySummaryOutput `json:"documents"`
	Count     int                    `json:"count"`
}

// HistorySummaryOutput describes one saved conversation.
type HistorySummaryOutput struct {
	Document string `json:"document"`
	Entries  int    `json:"entries"`
	Corrupt  bool   `json:"corrupt,omitempty"`
}

// GetHistoryInput is the input schema for the get_history tool.
type GetHistoryInput struct {
	Document string `json:"document" jsonschema:"file name or document ID of a saved conversation"`
}

// GetHistoryOutput is the output schema for the get_history tool.
type GetHistoryOutput struct {
	Document string         `json:"document"`
	Entries  []domain.Entry `json:"entries"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Upload a PDF and ask a question about its contents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_history",
		Description: "List documents with saved conversations",
	}, s.handleListHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_history",
		Description: "Read the saved conversation for a document",
	}, s.handleGetHistory)
}

// handleAsk handles the ask_document tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}
	file := domain.NewUploadFile(input.Path, data)

	logger.Debug("MCP ask_document: %s", file.Name)
	entry, err := services.Ask(ctx, s.ports.Chat, file, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Document: file.Name,
		Question: entry.Question,
		Answer:   entry.Answer,
		Sources:  entry.Sources,
	}, nil
}

// handleListHistory handles the list_history tool invocation.
func (s *Server) handleListHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListHistoryInput,
) (*mcp.CallToolResult, ListHistoryOutput, error) {
	summaries, err := s.ports.History.Documents(ctx)
	if err != nil {
		return nil, ListHistoryOutput{}, err
	}

	output := ListHistoryOutput{
		Documents: make([]HistorySummaryOutput, len(summaries)),
		Count:     len(summaries),
	}
	for i, summary := range summaries {
		output.Documents[i] = HistorySummaryOutput{
			Document: summary.Document,
			Entries:  summary.Entries,
			Corrupt:  summary.Corrupt,
		}
	}
	return nil, output, nil
}

// handleGetHistory handles the get_history tool invocation.
func (s *Server) handleGetHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetHistoryInput,
) (*mcp.CallToolResult, GetHistoryOutput, error) {
	entries, err := s.ports.History.Entries(ctx, input.Document)
	if err != nil {
		return nil, GetHistoryOutput{}, err
	}
	return nil, GetHistoryOutput{Document: input.Document, Entries: entries}, nil
}
