package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// ConversationStore keeps the conversation log of the active document and
// mirrors it to durable storage. Every mutation writes the candidate log
// first and only changes memory once the write succeeded, so both copies
// are equal after each call returns.
//
// ConversationStore is not safe for concurrent use; the chat controller
// serialises access.
type ConversationStore struct {
	store driven.HistoryStore
	key   string
	conv  *domain.Conversation
}

// NewConversationStore creates a conversation store over a history store.
func NewConversationStore(store driven.HistoryStore) *ConversationStore {
	return &ConversationStore{
		store: store,
		conv:  domain.NewConversation(nil),
	}
}

// Load reads the log saved under key and makes it current, selecting the
// last entry. A missing key yields an empty log. An undecodable value also
// yields an empty log but returns domain.ErrCorruptHistory so the caller
// can warn; a value repaired by jsonrepair is rewritten in canonical form.
// Any other read failure leaves the store without a document so nothing
// can be written over the saved log.
func (s *ConversationStore) Load(ctx context.Context, key string) error {
	s.Reset()

	value, err := s.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		s.key = key
		logger.Debug("No saved history for %s", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load history %s: %w", key, err)
	}
	s.key = key

	entries, repaired, err := decodeHistory(value)
	if err != nil {
		logger.Warn("Discarding unreadable history for %s: %v", key, err)
		return err
	}
	s.conv.Reset(entries)
	logger.Debug("Loaded %d history entries for %s", len(entries), key)

	if repaired {
		logger.Warn("Repaired malformed history for %s", key)
		if err := s.persist(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

// Reset forgets the current document without touching durable storage.
func (s *ConversationStore) Reset() {
	s.key = ""
	s.conv.Reset(nil)
}

// Key returns the storage key of the current log.
func (s *ConversationStore) Key() string {
	return s.key
}

// Append adds entry to the end of the log, persists and selects it.
func (s *ConversationStore) Append(ctx context.Context, entry domain.Entry) error {
	next := s.conv.WithAppended(entry)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.conv.Append(entry)
	return nil
}

// Remove deletes the entry at index, persists, and re-derives the cursor.
func (s *ConversationStore) Remove(ctx context.Context, index int) error {
	next, err := s.conv.WithRemoved(index)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	return s.conv.Remove(index)
}

// Select moves the cursor to index.
func (s *ConversationStore) Select(index int) error {
	return s.conv.Select(index)
}

// Entries returns a copy of the log.
func (s *ConversationStore) Entries() []domain.Entry {
	return s.conv.Entries()
}

// Len returns the number of entries.
func (s *ConversationStore) Len() int {
	return s.conv.Len()
}

// Selected returns the cursor and whether one is set.
func (s *ConversationStore) Selected() (int, bool) {
	return s.conv.Selected()
}

// SelectedEntry returns the entry under the cursor.
func (s *ConversationStore) SelectedEntry() (domain.Entry, bool) {
	return s.conv.SelectedEntry()
}

func (s *ConversationStore) persist(ctx context.Context, entries []domain.Entry) error {
	if s.key == "" {
		return domain.ErrNoDocument
	}
	value, err := encodeHistory(entries)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, s.key, value); err != nil {
		return fmt.Errorf("save history %s: %w", s.key, err)
	}
	return nil
}
