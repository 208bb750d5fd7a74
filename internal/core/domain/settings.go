package domain

import "time"

const unknownDescription = "Unknown"

// DefaultServiceBaseURL is the hosted question-answering backend.
const DefaultServiceBaseURL = "https://pdf-chatbot-backend-vosn.onrender.com"

// HistoryKeyBy selects which identifier keys durable conversation logs.
type HistoryKeyBy string

// Available history key modes.
const (
	// HistoryKeyByFilename keys history by the uploaded file name, so
	// different files sharing a name share history.
	HistoryKeyByFilename HistoryKeyBy = "filename"

	// HistoryKeyByDocumentID keys history by the backend document identifier.
	HistoryKeyByDocumentID HistoryKeyBy = "document_id"
)

// IsValid returns true if the key mode is recognised.
func (k HistoryKeyBy) IsValid() bool {
	switch k {
	case HistoryKeyByFilename, HistoryKeyByDocumentID:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k HistoryKeyBy) String() string {
	return string(k)
}

// Description returns a human-readable description of the key mode.
func (k HistoryKeyBy) Description() string {
	switch k {
	case HistoryKeyByFilename:
		return "File name (history survives re-uploads)"
	case HistoryKeyByDocumentID:
		return "Document ID (history is per backend document)"
	default:
		return unknownDescription
	}
}

// SpeechMode selects the speech recogniser.
type SpeechMode string

// Available speech modes.
const (
	// SpeechModeNone disables speech input.
	SpeechModeNone SpeechMode = "none"

	// SpeechModeCommand runs an external recogniser whose stdout lines are
	// running transcripts.
	SpeechModeCommand SpeechMode = "command"

	// SpeechModeTranscript watches a transcript file written by a dictation tool.
	SpeechModeTranscript SpeechMode = "transcript"
)

// IsValid returns true if the speech mode is recognised.
func (m SpeechMode) IsValid() bool {
	switch m {
	case SpeechModeNone, SpeechModeCommand, SpeechModeTranscript:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SpeechMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SpeechMode) Description() string {
	switch m {
	case SpeechModeNone:
		return "Disabled"
	case SpeechModeCommand:
		return "External recogniser command"
	case SpeechModeTranscript:
		return "Transcript file"
	default:
		return unknownDescription
	}
}

// ServiceSettings holds remote service configuration.
type ServiceSettings struct {
	// BaseURL is the backend root, without trailing slash.
	BaseURL string

	// TimeoutSeconds bounds each request.
	TimeoutSeconds int

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
}

// Timeout returns the request timeout as a duration.
func (s ServiceSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// HistorySettings holds durable history configuration.
type HistorySettings struct {
	// KeyPrefix namespaces storage keys.
	KeyPrefix string

	// KeyBy selects the identifier used after the prefix.
	KeyBy HistoryKeyBy
}

// Key returns the storage key for a session.
func (h HistorySettings) Key(session *DocumentSession) string {
	if session == nil {
		return ""
	}
	if h.KeyBy == HistoryKeyByDocumentID && session.DocumentID != "" {
		return HistoryKey(h.KeyPrefix, session.DocumentID)
	}
	return HistoryKey(h.KeyPrefix, session.File.Name)
}

// SpeechSettings holds speech recogniser configuration.
type SpeechSettings struct {
	// Mode selects the recogniser.
	Mode SpeechMode

	// Command is the recogniser executable for SpeechModeCommand.
	Command string

	// Args are passed to Command when listening.
	Args []string

	// CheckArgs, when set, run Command once at startup to verify
	// microphone access. A non-zero exit means access is denied.
	CheckArgs []string

	// TranscriptFile is watched in SpeechModeTranscript.
	TranscriptFile string
}

// IsConfigured returns true if a recogniser is set up.
func (s SpeechSettings) IsConfigured() bool {
	switch s.Mode {
	case SpeechModeCommand:
		return s.Command != ""
	case SpeechModeTranscript:
		return s.TranscriptFile != ""
	case SpeechModeNone:
		return false
	default:
		return false
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Service holds remote service settings.
	Service ServiceSettings

	// History holds durable history settings.
	History HistorySettings

	// Speech holds speech input settings.
	Speech SpeechSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Speech input is disabled until a recogniser is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Service: ServiceSettings{
			BaseURL:        DefaultServiceBaseURL,
			TimeoutSeconds: 120,
		},
		History: HistorySettings{
			KeyPrefix: DefaultHistoryKeyPrefix,
			KeyBy:     HistoryKeyByFilename,
		},
		Speech: SpeechSettings{
			Mode: SpeechModeNone,
		},
	}
}

// AllSpeechModes returns all available speech modes.
func AllSpeechModes() []SpeechMode {
	return []SpeechMode{
		SpeechModeNone,
		SpeechModeCommand,
		SpeechModeTranscript,
	}
}

// AllHistoryKeyModes returns all available history key modes.
func AllHistoryKeyModes() []HistoryKeyBy {
	return []HistoryKeyBy{
		HistoryKeyByFilename,
		HistoryKeyByDocumentID,
	}
}
