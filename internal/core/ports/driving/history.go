package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// HistorySummary describes a document with saved history.
type HistorySummary struct {
	// Document is the key suffix: a file name or document ID.
	Document string

	// Key is the full storage key.
	Key string

	// Entries is the number of saved entries, 0 when corrupt.
	Entries int

	// Corrupt is true when the stored value could not be decoded.
	Corrupt bool
}

// HistoryService manages saved conversation logs outside an interactive
// session.
type HistoryService interface {
	// Documents lists every document with saved history.
	Documents(ctx context.Context) ([]HistorySummary, error)

	// Entries returns the saved log for a document.
	// Returns domain.ErrNotFound if nothing is saved.
	Entries(ctx context.Context, document string) ([]domain.Entry, error)

	// DeleteEntry removes one entry from a saved log.
	DeleteEntry(ctx context.Context, document string, index int) error

	// Clear removes the saved log for a document.
	Clear(ctx context.Context, document string) error
}
