package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

// mockQAService is a mock implementation of driven.QAService.
type mockQAService struct {
	documentID string
	answer     domain.Answer
	err        error
	uploads    int
}

func (m *mockQAService) SubmitDocument(_ context.Context, _ domain.UploadFile) (*domain.UploadResult, error) {
	m.uploads++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.UploadResult{DocumentID: m.documentID}, nil
}

func (m *mockQAService) SubmitQuestion(_ context.Context, _, _ string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	answer := m.answer
	return &answer, nil
}

// fixture wires a server over real services and an in-memory store.
type fixture struct {
	server *Server
	remote *mockQAService
	store  *memory.HistoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		remote: &mockQAService{
			documentID: "doc1",
			answer:     domain.Answer{Answer: "X is a thing.", Sources: []string{"page 3"}},
		},
		store: memory.NewHistoryStore(),
	}
	chat, err := services.NewChatController(services.ChatControllerConfig{
		Remote:  f.remote,
		History: f.store,
	})
	require.NoError(t, err)

	server, err := NewServer(&Ports{
		Chat:    chat,
		History: services.NewHistoryService(f.store, ""),
	})
	require.NoError(t, err)
	f.server = server
	return f
}

// save stores entries under the default key for document.
func (f *fixture) save(t *testing.T, document string, entries ...domain.Entry) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	key := domain.HistoryKey(domain.DefaultHistoryKeyPrefix, document)
	require.NoError(t, f.store.Put(context.Background(), key, string(data)))
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	return path
}
