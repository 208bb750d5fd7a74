// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the main question/answer view.
	ViewChat ViewType = iota
	// ViewUpload is the PDF file picker.
	ViewUpload
	// ViewHistory lists documents with saved conversations.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewUpload:
		return "upload"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// FileChosen is sent when the user picks a file to upload.
type FileChosen struct {
	Path string
}

// UploadCompleted is sent when an upload finishes.
type UploadCompleted struct {
	File string
	Err  error
}

// AnswerReceived carries the entry appended for a submitted question.
type AnswerReceived struct {
	Entry *domain.Entry
	Err   error
}

// EntryDeleted is sent after a history entry is removed.
type EntryDeleted struct {
	Index int
	Err   error
}

// HistoryReloaded is sent after the active document's history is re-read.
type HistoryReloaded struct {
	Err error
}

// SpeechChecked carries the result of the startup speech probe.
type SpeechChecked struct {
	Err error
}

// ListeningChanged is sent when dictation starts or stops.
type ListeningChanged struct {
	Listening bool
	Err       error
}

// TranscriptReceived carries a running transcript from the recogniser.
type TranscriptReceived struct {
	Update domain.TranscriptUpdate
}

// Notice is a user-facing message raised by the core.
type Notice struct {
	Level   driven.NoticeLevel
	Message string
}

// HistoryLoaded carries the saved conversation summaries.
type HistoryLoaded struct {
	Summaries []driving.HistorySummary
	Err       error
}

// HistoryEntriesLoaded carries the saved log of one document.
type HistoryEntriesLoaded struct {
	Document string
	Entries  []domain.Entry
	Err      error
}

// HistoryCleared is sent after a saved conversation is removed.
type HistoryCleared struct {
	Document string
	Err      error
}

// SettingsLoaded is sent when settings are loaded.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved is sent when settings are saved.
type SettingsSaved struct {
	Err error
}

// ErrorOccurred is sent when an error occurs.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application to exit.
type Quit struct{}
