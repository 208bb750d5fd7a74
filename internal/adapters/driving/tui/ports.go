// Package tui provides an interactive terminal user interface for pdfchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives upload, questions, history selection and speech input.
	Chat driving.ChatController

	// History browses saved conversations for other documents.
	History driving.HistoryService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Notices delivers core notifications to the status bar. Optional.
	Notices *Notifier
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatController,
	history driving.HistoryService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Chat:     chat,
		History:  history,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatController
	}
	if p.History == nil {
		return ErrMissingHistoryService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
