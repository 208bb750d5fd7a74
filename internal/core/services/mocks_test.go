package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockQAService implements driven.QAService for testing.
type mockQAService struct {
	mu sync.Mutex

	documentID string
	uploadErr  error
	answer     *domain.Answer
	askErr     error

	// block, when set, holds calls until closed.
	block chan struct{}

	uploads   []domain.UploadFile
	questions []string
	askedIDs  []string
}

func (m *mockQAService) SubmitDocument(ctx context.Context, file domain.UploadFile) (*domain.UploadResult, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, file)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &domain.UploadResult{DocumentID: m.documentID}, nil
}

func (m *mockQAService) SubmitQuestion(ctx context.Context, question, documentID string) (*domain.Answer, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.askedIDs = append(m.askedIDs, documentID)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.askErr != nil {
		return nil, m.askErr
	}
	if m.answer == nil {
		return &domain.Answer{Sources: []string{}}, nil
	}
	return m.answer, nil
}

func (m *mockQAService) uploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

func (m *mockQAService) questionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

// failingHistoryStore wraps a history store and fails writes on demand.
type failingHistoryStore struct {
	driven.HistoryStore
	putErr error
	getErr error
}

func (f *failingHistoryStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.HistoryStore.Get(ctx, key)
}

func (f *failingHistoryStore) Put(ctx context.Context, key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.HistoryStore.Put(ctx, key, value)
}

// mockRecognizer implements driven.SpeechRecognizer for testing.
// Each Listen call hands out a fresh stream that tests feed via send.
type mockRecognizer struct {
	mu        sync.Mutex
	checkErr  error
	listenErr error
	checks    int
	stream    chan domain.TranscriptUpdate
	listenCtx context.Context
}

func (m *mockRecognizer) Check(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	return m.checkErr
}

func (m *mockRecognizer) Listen(ctx context.Context) (<-chan domain.TranscriptUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listenErr != nil {
		return nil, m.listenErr
	}
	stream := make(chan domain.TranscriptUpdate)
	m.stream = stream
	m.listenCtx = ctx

	// Close the stream when the session is cancelled, like real recognisers.
	out := make(chan domain.TranscriptUpdate)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-stream:
				if !ok {
					return
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (m *mockRecognizer) send(u domain.TranscriptUpdate) {
	m.mu.Lock()
	stream := m.stream
	m.mu.Unlock()
	stream <- u
}

func (m *mockRecognizer) finish() {
	m.mu.Lock()
	stream := m.stream
	m.mu.Unlock()
	close(stream)
}

// recordingNotifier collects notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

type notice struct {
	level   driven.NoticeLevel
	message string
}

func (r *recordingNotifier) Notify(level driven.NoticeLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{level: level, message: message})
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.message)
	}
	return out
}
