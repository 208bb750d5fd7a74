// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfchat.
// It lets AI assistants ask questions about local PDF files and read saved
// conversations.
package mcp

import "errors"

var (
	// ErrMissingChatController is returned when the chat controller is not provided.
	ErrMissingChatController = errors.New("mcp: chat controller is required")

	// ErrMissingHistoryService is returned when the history service is not provided.
	ErrMissingHistoryService = errors.New("mcp: history service is required")
)
