package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

type controllerFixture struct {
	ctrl     *ChatController
	remote   *mockQAService
	history  *memory.HistoryStore
	notifier *recordingNotifier
	rec      *mockRecognizer
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		remote:   &mockQAService{documentID: "doc1"},
		history:  memory.NewHistoryStore(),
		notifier: &recordingNotifier{},
		rec:      &mockRecognizer{},
	}
	ctrl, err := NewChatController(ChatControllerConfig{
		Remote:          f.remote,
		History:         f.history,
		Speech:          NewSpeechInput(f.rec),
		Notifier:        f.notifier,
		HistorySettings: domain.DefaultAppSettings().History,
	})
	require.NoError(t, err)
	f.ctrl = ctrl
	return f
}

func pdf(name string) domain.UploadFile {
	return domain.UploadFile{Name: name, Data: []byte("%PDF-1.4")}
}

func (f *controllerFixture) upload(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.ctrl.SelectFile(context.Background(), pdf(name)))
}

func TestNewChatController_RequiresCollaborators(t *testing.T) {
	_, err := NewChatController(ChatControllerConfig{History: memory.NewHistoryStore()})
	assert.Error(t, err)

	_, err = NewChatController(ChatControllerConfig{Remote: &mockQAService{}})
	assert.Error(t, err)
}

func TestChatController_InitialState(t *testing.T) {
	f := newControllerFixture(t)

	assert.Equal(t, driving.StateNoDocument, f.ctrl.State())
	assert.Nil(t, f.ctrl.Session())
	assert.Equal(t, domain.UploadStatusNone, f.ctrl.UploadStatus())
	assert.Empty(t, f.ctrl.Entries())
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)
}

func TestChatController_UploadAndAsk(t *testing.T) {
	f := newControllerFixture(t)
	f.remote.answer = &domain.Answer{Answer: "X is Y.", Sources: []string{"p1"}}

	f.upload(t, "a.pdf")
	assert.Equal(t, driving.StateReady, f.ctrl.State())
	assert.Equal(t, domain.UploadStatusSuccess, f.ctrl.UploadStatus())
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, "doc1", f.ctrl.Session().DocumentID)
	assert.Equal(t, "a.pdf", f.ctrl.Session().Name())

	f.ctrl.SetQuestion("What is X?")
	got, err := f.ctrl.Submit(context.Background())

	require.NoError(t, err)
	want := domain.Entry{Question: "What is X?", Answer: "X is Y.", Sources: []string{"p1"}}
	assert.Equal(t, want, *got)
	assert.Equal(t, []domain.Entry{want}, f.ctrl.Entries())
	idx, ok := f.ctrl.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Empty(t, f.ctrl.Question())
	assert.Equal(t, driving.StateReady, f.ctrl.State())
	assert.Equal(t, []string{"doc1"}, f.remote.askedIDs)

	value, err := f.history.Get(context.Background(), "pdfqa_a.pdf")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"What is X?","answer":"X is Y.","sources":["p1"]}]`, value)
}

func TestChatController_UploadLoadsSavedHistory(t *testing.T) {
	f := newControllerFixture(t)
	value, err := encodeHistory([]domain.Entry{entry("one"), entry("two")})
	require.NoError(t, err)
	require.NoError(t, f.history.Put(context.Background(), "pdfqa_a.pdf", value))

	f.upload(t, "a.pdf")

	assert.Len(t, f.ctrl.Entries(), 2)
	selected, ok := f.ctrl.SelectedEntry()
	assert.True(t, ok)
	assert.Equal(t, "two", selected.Question)
}

func TestChatController_HistoryKeyedByDocumentID(t *testing.T) {
	f := newControllerFixture(t)
	ctrl, err := NewChatController(ChatControllerConfig{
		Remote:  f.remote,
		History: f.history,
		HistorySettings: domain.HistorySettings{
			KeyPrefix: "pdfqa_",
			KeyBy:     domain.HistoryKeyByDocumentID,
		},
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.SelectFile(context.Background(), pdf("a.pdf")))

	ctrl.SetQuestion("q")
	_, err = ctrl.Submit(context.Background())
	require.NoError(t, err)

	_, err = f.history.Get(context.Background(), "pdfqa_doc1")
	assert.NoError(t, err)
}

func TestChatController_SelectFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file domain.UploadFile
		want error
	}{
		{"wrong extension", domain.UploadFile{Name: "notes.txt", Data: []byte("x")}, domain.ErrUnsupportedFileType},
		{"empty file", domain.UploadFile{Name: "a.pdf"}, domain.ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixture(t)

			err := f.ctrl.SelectFile(context.Background(), tt.file)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, f.remote.uploadCount())
			assert.Equal(t, driving.StateNoDocument, f.ctrl.State())
			assert.Contains(t, f.notifier.messages(), domain.UserMessage(tt.want))
		})
	}
}

func TestChatController_UploadFailure(t *testing.T) {
	f := newControllerFixture(t)
	f.remote.uploadErr = &domain.ServerError{StatusCode: 500, Body: "boom"}

	err := f.ctrl.SelectFile(context.Background(), pdf("a.pdf"))

	assert.ErrorIs(t, err, domain.ErrServer)
	assert.Equal(t, driving.StateNoDocument, f.ctrl.State())
	assert.Equal(t, domain.UploadStatusError, f.ctrl.UploadStatus())
	assert.Nil(t, f.ctrl.Session())
	assert.NotEmpty(t, f.notifier.messages())

	f.ctrl.SetQuestion("anything")
	_, err = f.ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDocument)
	assert.Equal(t, 0, f.remote.questionCount())
}

func TestChatController_ReuploadReplacesSession(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	f.ctrl.SetQuestion("q")
	_, err := f.ctrl.Submit(context.Background())
	require.NoError(t, err)

	f.remote.documentID = "doc2"
	f.upload(t, "b.pdf")

	assert.Equal(t, "doc2", f.ctrl.Session().DocumentID)
	assert.Empty(t, f.ctrl.Entries())
}

func TestChatController_Submit_BlankQuestion(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")

	for _, q := range []string{"", "   ", "\n\t"} {
		f.ctrl.SetQuestion(q)
		_, err := f.ctrl.Submit(context.Background())
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	}

	assert.Equal(t, 0, f.remote.questionCount())
	assert.Empty(t, f.ctrl.Entries())
	assert.Equal(t, driving.StateReady, f.ctrl.State())
}

func TestChatController_Submit_NoDocument(t *testing.T) {
	f := newControllerFixture(t)
	f.ctrl.SetQuestion("What?")

	_, err := f.ctrl.Submit(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoDocument)
	assert.Equal(t, 0, f.remote.questionCount())
}

func TestChatController_Submit_FailureKeepsQuestion(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	f.remote.askErr = domain.ErrTransport
	f.ctrl.SetQuestion("What is X?")

	_, err := f.ctrl.Submit(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, "What is X?", f.ctrl.Question())
	assert.Empty(t, f.ctrl.Entries())
	assert.Equal(t, driving.StateReady, f.ctrl.State())
	assert.Contains(t, f.notifier.messages(), domain.UserMessage(domain.ErrTransport))
}

func TestChatController_Submit_PersistFailure(t *testing.T) {
	f := newControllerFixture(t)
	backing := &failingHistoryStore{HistoryStore: f.history}
	ctrl, err := NewChatController(ChatControllerConfig{Remote: f.remote, History: backing})
	require.NoError(t, err)
	require.NoError(t, ctrl.SelectFile(context.Background(), pdf("a.pdf")))

	backing.putErr = errors.New("disk full")
	ctrl.SetQuestion("q")
	_, err = ctrl.Submit(context.Background())

	require.Error(t, err)
	assert.Empty(t, ctrl.Entries())
	assert.Equal(t, "q", ctrl.Question())
}

func TestChatController_BusyGuard(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	f.remote.block = make(chan struct{})
	f.ctrl.SetQuestion("slow question")

	done := make(chan error, 1)
	go func() {
		_, err := f.ctrl.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool {
		return f.ctrl.State() == driving.StateAsking
	}, 2*time.Second, 5*time.Millisecond)

	_, err := f.ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.ErrorIs(t, f.ctrl.SelectFile(context.Background(), pdf("b.pdf")), domain.ErrBusy)

	close(f.remote.block)
	require.NoError(t, <-done)
	assert.Equal(t, driving.StateReady, f.ctrl.State())
	assert.Equal(t, 1, f.remote.questionCount())
	assert.Len(t, f.ctrl.Entries(), 1)
}

func TestChatController_SelectAndDelete(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	for _, q := range []string{"a", "b", "c"} {
		f.ctrl.SetQuestion(q)
		_, err := f.ctrl.Submit(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, f.ctrl.Select(2))
	require.NoError(t, f.ctrl.Delete(context.Background(), 0))

	idx, ok := f.ctrl.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	sel, _ := f.ctrl.SelectedEntry()
	assert.Equal(t, "c", sel.Question)

	assert.ErrorIs(t, f.ctrl.Select(7), domain.ErrInvalidIndex)
	assert.ErrorIs(t, f.ctrl.Delete(context.Background(), 7), domain.ErrInvalidIndex)

	require.NoError(t, f.ctrl.Delete(context.Background(), 1))
	require.NoError(t, f.ctrl.Delete(context.Background(), 0))
	_, ok = f.ctrl.Selected()
	assert.False(t, ok)

	value, err := f.history.Get(context.Background(), "pdfqa_a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestChatController_Delete_NoDocument(t *testing.T) {
	f := newControllerFixture(t)

	assert.ErrorIs(t, f.ctrl.Delete(context.Background(), 0), domain.ErrNoDocument)
}

func TestChatController_CorruptHistoryWarns(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.history.Put(context.Background(), "pdfqa_a.pdf", "not json at all {"))

	err := f.ctrl.SelectFile(context.Background(), pdf("a.pdf"))

	require.NoError(t, err)
	assert.Equal(t, driving.StateReady, f.ctrl.State())
	assert.Empty(t, f.ctrl.Entries())
	assert.Contains(t, f.notifier.messages(), domain.UserMessage(domain.ErrCorruptHistory))
}

func TestChatController_SpeechFillsQuestion(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	require.NoError(t, f.ctrl.CheckSpeech(context.Background()))
	assert.True(t, f.ctrl.SpeechAvailable())

	require.NoError(t, f.ctrl.StartListening(context.Background()))
	assert.True(t, f.ctrl.Listening())

	f.rec.send(domain.TranscriptUpdate{Transcript: "hello"})
	update := nextUpdate(t, f.ctrl.TranscriptUpdates())
	f.ctrl.ApplyTranscript(update.Transcript)
	assert.Equal(t, "hello", f.ctrl.Question())
	assert.Equal(t, "hello", f.ctrl.Transcript())

	f.ctrl.StopListening()
	assert.False(t, f.ctrl.Listening())
	assert.Equal(t, "hello", f.ctrl.Question())

	_, err := f.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.ctrl.Transcript())
}

func TestChatController_ApplyEmptyTranscriptKeepsQuestion(t *testing.T) {
	f := newControllerFixture(t)
	f.ctrl.SetQuestion("typed")

	f.ctrl.ApplyTranscript("")

	assert.Equal(t, "typed", f.ctrl.Question())
}

func TestChatController_SpeechUnavailable(t *testing.T) {
	f := newControllerFixture(t)
	f.rec.checkErr = domain.ErrMicrophoneDenied

	err := f.ctrl.CheckSpeech(context.Background())

	assert.ErrorIs(t, err, domain.ErrMicrophoneDenied)
	assert.False(t, f.ctrl.SpeechAvailable())
	assert.Equal(t, []string{domain.UserMessage(domain.ErrMicrophoneDenied)}, f.notifier.messages())

	assert.ErrorIs(t, f.ctrl.StartListening(context.Background()), domain.ErrMicrophoneDenied)
	assert.False(t, f.ctrl.Listening())
	assert.Len(t, f.notifier.messages(), 1)
}

func TestChatController_HistoryReadFailureKeepsSavedLog(t *testing.T) {
	f := newControllerFixture(t)
	saved, err := encodeHistory([]domain.Entry{entry("old1"), entry("old2")})
	require.NoError(t, err)
	require.NoError(t, f.history.Put(context.Background(), "pdfqa_a.pdf", saved))

	backing := &failingHistoryStore{HistoryStore: f.history, getErr: errors.New("database is locked")}
	ctrl, err := NewChatController(ChatControllerConfig{
		Remote:   f.remote,
		History:  backing,
		Notifier: f.notifier,
	})
	require.NoError(t, err)

	err = ctrl.SelectFile(context.Background(), pdf("a.pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, driving.StateNoDocument, ctrl.State())
	assert.Equal(t, domain.UploadStatusError, ctrl.UploadStatus())
	assert.Nil(t, ctrl.Session())
	assert.Len(t, f.notifier.messages(), 1)

	backing.getErr = nil
	ctrl.SetQuestion("new")
	_, err = ctrl.Submit(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoDocument)
	assert.Zero(t, f.remote.questionCount())
	value, err := f.history.Get(context.Background(), "pdfqa_a.pdf")
	require.NoError(t, err)
	assert.Equal(t, saved, value)
}

func TestChatController_SubmitEndsDictation(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	require.NoError(t, f.ctrl.CheckSpeech(context.Background()))
	require.NoError(t, f.ctrl.StartListening(context.Background()))

	f.rec.send(domain.TranscriptUpdate{Transcript: "hello"})
	f.ctrl.ApplyTranscript(nextUpdate(t, f.ctrl.TranscriptUpdates()).Transcript)

	_, err := f.ctrl.Submit(context.Background())

	require.NoError(t, err)
	assert.False(t, f.ctrl.Listening())
	assert.Empty(t, f.ctrl.Transcript())
	assert.Empty(t, f.ctrl.Question())
	f.rec.mu.Lock()
	listenCtx := f.rec.listenCtx
	f.rec.mu.Unlock()
	assert.Error(t, listenCtx.Err())
}

func TestChatController_ReloadHistory(t *testing.T) {
	f := newControllerFixture(t)
	f.upload(t, "a.pdf")
	f.ctrl.SetQuestion("q")
	_, err := f.ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.history.Delete(context.Background(), "pdfqa_a.pdf"))

	require.NoError(t, f.ctrl.ReloadHistory(context.Background()))

	assert.Empty(t, f.ctrl.Entries())
	_, ok := f.ctrl.Selected()
	assert.False(t, ok)

	f.ctrl.SetQuestion("after clear")
	_, err = f.ctrl.Submit(context.Background())
	require.NoError(t, err)
	value, err := f.history.Get(context.Background(), "pdfqa_a.pdf")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"after clear","answer":"","sources":[]}]`, value)
}

func TestChatController_ReloadHistory_NoDocument(t *testing.T) {
	f := newControllerFixture(t)

	assert.NoError(t, f.ctrl.ReloadHistory(context.Background()))
	assert.Equal(t, driving.StateNoDocument, f.ctrl.State())
}
