package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService browses and edits saved conversation logs by document
// name, outside an interactive session.
type HistoryService struct {
	store  driven.HistoryStore
	prefix string
}

// NewHistoryService creates a history service over store. Keys are the
// prefix followed by the document name or ID.
func NewHistoryService(store driven.HistoryStore, prefix string) *HistoryService {
	if prefix == "" {
		prefix = domain.DefaultHistoryKeyPrefix
	}
	return &HistoryService{
		store:  store,
		prefix: prefix,
	}
}

// Documents lists every document with saved history.
func (s *HistoryService) Documents(ctx context.Context) ([]driving.HistorySummary, error) {
	keys, err := s.store.Keys(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	summaries := make([]driving.HistorySummary, 0, len(keys))
	for _, key := range keys {
		summary := driving.HistorySummary{
			Document: strings.TrimPrefix(key, s.prefix),
			Key:      key,
		}
		value, err := s.store.Get(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between Keys and Get.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read history %s: %w", key, err)
		}
		entries, _, err := decodeHistory(value)
		if err != nil {
			summary.Corrupt = true
		} else {
			summary.Entries = len(entries)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Entries returns the saved log for document.
func (s *HistoryService) Entries(ctx context.Context, document string) ([]domain.Entry, error) {
	entries, _, err := s.load(ctx, document)
	return entries, err
}

// DeleteEntry removes one entry from a saved log.
func (s *HistoryService) DeleteEntry(ctx context.Context, document string, index int) error {
	entries, key, err := s.load(ctx, document)
	if err != nil {
		return err
	}

	conv := domain.NewConversation(entries)
	remaining, err := conv.WithRemoved(index)
	if err != nil {
		return err
	}
	value, err := encodeHistory(remaining)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("save history %s: %w", key, err)
	}
	logger.Debug("Deleted entry %d from %s", index, key)
	return nil
}

// Clear removes the saved log for document.
func (s *HistoryService) Clear(ctx context.Context, document string) error {
	key, err := s.key(document)
	if err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear history %s: %w", key, err)
	}
	logger.Debug("Cleared %s", key)
	return nil
}

func (s *HistoryService) load(ctx context.Context, document string) ([]domain.Entry, string, error) {
	key, err := s.key(document)
	if err != nil {
		return nil, "", err
	}
	value, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, key, err
	}
	entries, _, err := decodeHistory(value)
	if err != nil {
		return nil, key, err
	}
	return entries, key, nil
}

func (s *HistoryService) key(document string) (string, error) {
	if strings.TrimSpace(document) == "" {
		return "", fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}
	return domain.HistoryKey(s.prefix, document), nil
}
