package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure ChatController implements the interface.
var _ driving.ChatController = (*ChatController)(nil)

// ChatControllerConfig holds the collaborators of a ChatController.
type ChatControllerConfig struct {
	// Remote is the question-answering backend. Required.
	Remote driven.QAService

	// History persists conversation logs. Required.
	History driven.HistoryStore

	// Speech is the speech input adapter. Optional.
	Speech *SpeechInput

	// Notifier receives user-facing failure messages. Optional.
	Notifier driven.Notifier

	// HistorySettings chooses the storage key for each document.
	HistorySettings domain.HistorySettings
}

// ChatController is the interaction state machine over
// no-document, uploading, ready and asking.
//
// Network calls run without holding the lock. Overlapping uploads or
// questions are rejected with domain.ErrBusy instead of racing.
type ChatController struct {
	remote   driven.QAService
	speech   *SpeechInput
	notifier driven.Notifier
	keys     domain.HistorySettings

	mu           sync.Mutex
	state        driving.ChatState
	session      *domain.DocumentSession
	uploadStatus domain.UploadStatus
	question     string
	conversation *ConversationStore
}

// NewChatController creates a controller in the no-document state.
func NewChatController(cfg ChatControllerConfig) (*ChatController, error) {
	if cfg.Remote == nil {
		return nil, errors.New("chat controller: remote service is required")
	}
	if cfg.History == nil {
		return nil, errors.New("chat controller: history store is required")
	}
	speech := cfg.Speech
	if speech == nil {
		speech = NewSpeechInput(nil)
	}
	keys := cfg.HistorySettings
	if keys.KeyPrefix == "" {
		keys.KeyPrefix = domain.DefaultHistoryKeyPrefix
	}
	if !keys.KeyBy.IsValid() {
		keys.KeyBy = domain.HistoryKeyByFilename
	}

	return &ChatController{
		remote:       cfg.Remote,
		speech:       speech,
		notifier:     cfg.Notifier,
		keys:         keys,
		state:        driving.StateNoDocument,
		uploadStatus: domain.UploadStatusNone,
		conversation: NewConversationStore(cfg.History),
	}, nil
}

// SelectFile validates and uploads file. On success the saved history for
// the document becomes current with the last entry selected. On failure
// the controller returns to no-document and the file is discarded.
func (c *ChatController) SelectFile(ctx context.Context, file domain.UploadFile) error {
	if err := file.Validate(); err != nil {
		c.report(driven.NoticeError, err)
		return err
	}

	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		c.report(driven.NoticeWarning, domain.ErrBusy)
		return domain.ErrBusy
	}
	c.state = driving.StateUploading
	c.uploadStatus = domain.UploadStatusUploading
	c.session = nil
	c.conversation.Reset()
	c.mu.Unlock()

	logger.Section("Upload")
	logger.Debug("Submitting %s (%d bytes)", file.Name, file.Size())
	start := time.Now()
	result, err := c.remote.SubmitDocument(ctx, file)

	c.mu.Lock()
	if err != nil {
		c.state = driving.StateNoDocument
		c.uploadStatus = domain.UploadStatusError
		c.mu.Unlock()
		logger.Error("Upload of %s failed: %v", file.Name, err)
		c.report(driven.NoticeError, err)
		return fmt.Errorf("upload %s: %w", file.Name, err)
	}

	session := &domain.DocumentSession{File: file, DocumentID: result.DocumentID}
	loadErr := c.conversation.Load(ctx, c.keys.Key(session))
	if loadErr != nil && !errors.Is(loadErr, domain.ErrCorruptHistory) {
		c.state = driving.StateNoDocument
		c.uploadStatus = domain.UploadStatusError
		c.mu.Unlock()
		logger.Error("Reading history for %s failed: %v", file.Name, loadErr)
		c.report(driven.NoticeError, loadErr)
		return fmt.Errorf("upload %s: %w", file.Name, loadErr)
	}
	c.session = session
	c.uploadStatus = domain.UploadStatusSuccess
	c.question = ""
	c.state = driving.StateReady
	c.mu.Unlock()

	logger.Info("Uploaded %s as %s in %s", file.Name, result.DocumentID, time.Since(start).Round(time.Millisecond))

	if loadErr != nil {
		c.report(driven.NoticeWarning, loadErr)
	}
	return nil
}

// ReloadHistory re-reads the saved log of the active document, dropping
// entries that were removed from durable storage by another caller.
func (c *ChatController) ReloadHistory(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	if c.session == nil {
		c.mu.Unlock()
		return nil
	}
	session := c.session
	err := c.conversation.Load(ctx, c.keys.Key(session))
	if err != nil && !errors.Is(err, domain.ErrCorruptHistory) {
		c.session = nil
		c.state = driving.StateNoDocument
		c.uploadStatus = domain.UploadStatusError
	}
	c.mu.Unlock()

	if err != nil {
		c.report(driven.NoticeWarning, err)
		return err
	}
	logger.Debug("Reloaded history for %s", session.File.Name)
	return nil
}

// SetQuestion replaces the pending question.
func (c *ChatController) SetQuestion(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.question = text
}

// Submit asks the pending question. Blank questions and a missing document
// are rejected before any state change or network call. On success the
// entry is appended and selected, and the pending question and transcript
// are cleared; on failure the pending question is kept.
func (c *ChatController) Submit(ctx context.Context) (*domain.Entry, error) {
	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	if c.session == nil {
		c.mu.Unlock()
		return nil, domain.ErrNoDocument
	}
	if domain.IsBlank(c.question) {
		c.mu.Unlock()
		return nil, domain.ErrEmptyQuestion
	}
	question := c.question
	documentID := c.session.DocumentID
	c.state = driving.StateAsking
	c.mu.Unlock()

	logger.Section("Ask")
	logger.Debug("Question: %q (document %s)", question, documentID)
	answer, err := c.remote.SubmitQuestion(ctx, question, documentID)

	c.mu.Lock()
	c.state = driving.StateReady
	if err != nil {
		c.mu.Unlock()
		logger.Error("Question failed: %v", err)
		c.report(driven.NoticeError, err)
		return nil, fmt.Errorf("ask: %w", err)
	}

	entry := domain.NewEntry(question, answer)
	if err := c.conversation.Append(ctx, entry); err != nil {
		c.mu.Unlock()
		logger.Error("Saving answer failed: %v", err)
		c.report(driven.NoticeError, err)
		return nil, err
	}
	c.question = ""
	c.mu.Unlock()

	// A live session would refill the question with the old transcript.
	c.speech.Stop()
	c.speech.ResetTranscript()
	logger.Debug("Answer received with %d sources", len(entry.Sources))
	return &entry, nil
}

// Select moves the selection cursor.
func (c *ChatController) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversation.Select(index)
}

// Delete removes the entry at index.
func (c *ChatController) Delete(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return domain.ErrNoDocument
	}
	err := c.conversation.Remove(ctx, index)
	c.mu.Unlock()

	if err != nil {
		c.report(driven.NoticeError, err)
		return err
	}
	logger.Debug("Deleted history entry %d", index)
	return nil
}

// CheckSpeech probes the recogniser once and reports a problem once.
func (c *ChatController) CheckSpeech(ctx context.Context) error {
	err := c.speech.Check(ctx)
	if err != nil {
		c.report(driven.NoticeWarning, err)
	}
	return err
}

// StartListening begins dictation.
func (c *ChatController) StartListening(ctx context.Context) error {
	if !c.speech.Available() {
		// Configuration problems were reported at startup.
		return c.speech.Check(ctx)
	}
	if err := c.speech.Start(ctx); err != nil {
		c.report(driven.NoticeError, err)
		return err
	}
	return nil
}

// StopListening ends dictation.
func (c *ChatController) StopListening() {
	c.speech.Stop()
}

// ApplyTranscript overwrites the pending question verbatim. Empty
// transcripts are ignored so that starting a session does not wipe a
// typed question before anything is heard.
func (c *ChatController) ApplyTranscript(transcript string) {
	if transcript == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.question = transcript
}

// TranscriptUpdates delivers running transcripts while listening.
func (c *ChatController) TranscriptUpdates() <-chan domain.TranscriptUpdate {
	return c.speech.Updates()
}

// State returns the current state.
func (c *ChatController) State() driving.ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the active session, or nil.
func (c *ChatController) Session() *domain.DocumentSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	session := *c.session
	return &session
}

// UploadStatus returns the status of the last upload.
func (c *ChatController) UploadStatus() domain.UploadStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadStatus
}

// Question returns the pending question.
func (c *ChatController) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.question
}

// Entries returns the conversation log.
func (c *ChatController) Entries() []domain.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversation.Entries()
}

// Selected returns the selection cursor.
func (c *ChatController) Selected() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversation.Selected()
}

// SelectedEntry returns the entry under the cursor.
func (c *ChatController) SelectedEntry() (domain.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversation.SelectedEntry()
}

// Listening reports whether dictation is active.
func (c *ChatController) Listening() bool {
	return c.speech.Listening()
}

// Transcript returns the running transcript.
func (c *ChatController) Transcript() string {
	return c.speech.Transcript()
}

// SpeechAvailable reports whether the startup speech check succeeded.
func (c *ChatController) SpeechAvailable() bool {
	return c.speech.Available()
}

func (c *ChatController) report(level driven.NoticeLevel, err error) {
	if c.notifier == nil || err == nil {
		return
	}
	c.notifier.Notify(level, domain.UserMessage(err))
}
