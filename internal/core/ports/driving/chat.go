package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ChatState is the interaction controller's state.
type ChatState string

// Controller states.
const (
	StateNoDocument ChatState = "no_document"
	StateUploading  ChatState = "uploading"
	StateReady      ChatState = "ready"
	StateAsking     ChatState = "asking"
)

// String returns the string representation.
func (s ChatState) String() string {
	return string(s)
}

// Busy reports whether a network operation is in flight.
func (s ChatState) Busy() bool {
	return s == StateUploading || s == StateAsking
}

// ChatController ties file selection, upload, question submission, history
// selection, deletion and speech input together for one user.
//
// Blocking methods take a context and may be called from a goroutine;
// accessors are safe to call concurrently with them.
type ChatController interface {
	// SelectFile validates and uploads file, then loads its saved history.
	// Returns domain.ErrBusy if an upload or question is in flight.
	SelectFile(ctx context.Context, file domain.UploadFile) error

	// SetQuestion replaces the pending question.
	SetQuestion(text string)

	// Submit asks the pending question about the active document and
	// appends the answer to the history. Blank questions and a missing
	// document are rejected with a validation error before any call.
	Submit(ctx context.Context) (*domain.Entry, error)

	// Select moves the selection cursor.
	Select(index int) error

	// Delete removes a history entry and re-derives the cursor.
	Delete(ctx context.Context, index int) error

	// ReloadHistory re-reads the saved history of the active document.
	ReloadHistory(ctx context.Context) error

	// CheckSpeech probes the speech recogniser once and reports
	// configuration problems.
	CheckSpeech(ctx context.Context) error

	// StartListening begins dictation, clearing the previous transcript.
	StartListening(ctx context.Context) error

	// StopListening ends dictation. The pending question is kept.
	StopListening()

	// ApplyTranscript overwrites the pending question with a running
	// transcript.
	ApplyTranscript(transcript string)

	// TranscriptUpdates delivers running transcripts while listening.
	TranscriptUpdates() <-chan domain.TranscriptUpdate

	// State returns the current controller state.
	State() ChatState

	// Session returns the active document session, or nil.
	Session() *domain.DocumentSession

	// UploadStatus returns the status of the last upload.
	UploadStatus() domain.UploadStatus

	// Question returns the pending question.
	Question() string

	// Entries returns the conversation log of the active document.
	Entries() []domain.Entry

	// Selected returns the selection cursor and whether it is set.
	Selected() (int, bool)

	// SelectedEntry returns the entry under the cursor.
	SelectedEntry() (domain.Entry, bool)

	// Listening reports whether dictation is active.
	Listening() bool

	// Transcript returns the current running transcript.
	Transcript() string

	// SpeechAvailable reports whether the startup check succeeded.
	SpeechAvailable() bool
}
