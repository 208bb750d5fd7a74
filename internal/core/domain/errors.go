package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Remote Service Errors.

	// ErrTransport indicates the remote service could not be reached.
	ErrTransport = errors.New("remote service unreachable")

	// ErrServer indicates the remote service answered with a failure.
	// Use errors.As with *ServerError to inspect the status code.
	ErrServer = errors.New("remote service error")

	// Validation Errors.

	// ErrValidation is the parent of all user input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuestion indicates the pending question is empty or whitespace.
	ErrEmptyQuestion = fmt.Errorf("%w: question is empty", ErrValidation)

	// ErrNoDocument indicates no document session is active.
	ErrNoDocument = fmt.Errorf("%w: no document loaded", ErrValidation)

	// ErrUnsupportedFileType indicates the chosen file is not a PDF.
	ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type", ErrValidation)

	// ErrEmptyFile indicates the chosen file has no content.
	ErrEmptyFile = fmt.Errorf("%w: file is empty", ErrValidation)

	// ErrInvalidIndex indicates a history index outside the conversation log.
	ErrInvalidIndex = fmt.Errorf("%w: history index out of range", ErrValidation)

	// Speech Errors.

	// ErrSpeechUnsupported indicates no speech recogniser is available.
	ErrSpeechUnsupported = errors.New("speech recognition not supported")

	// ErrMicrophoneDenied indicates the recogniser cannot access audio input.
	ErrMicrophoneDenied = errors.New("microphone access denied")

	// State Errors.

	// ErrBusy indicates an upload or question is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrCorruptHistory indicates stored history could not be decoded.
	// The affected log is treated as empty.
	ErrCorruptHistory = errors.New("stored history is corrupt")
)

// ServerError describes a failed response from the remote service.
type ServerError struct {
	// StatusCode is the HTTP status returned.
	StatusCode int

	// Body is the (possibly truncated) response body.
	Body string

	// Reason explains decoding failures of otherwise successful responses.
	Reason string
}

// Error implements error.
func (e *ServerError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("remote service error: %s", e.Reason)
	}
	if e.Body != "" {
		return fmt.Sprintf("remote service error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote service error (status %d)", e.StatusCode)
}

// Unwrap allows errors.Is(err, ErrServer).
func (e *ServerError) Unwrap() error {
	return ErrServer
}

// UserMessage returns the notification text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFileType), errors.Is(err, ErrEmptyFile):
		return "Please upload a valid PDF file."
	case errors.Is(err, ErrEmptyQuestion):
		return "Type a question first."
	case errors.Is(err, ErrNoDocument):
		return "Upload a PDF before asking questions."
	case errors.Is(err, ErrInvalidIndex):
		return "That history entry no longer exists."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	case errors.Is(err, ErrSpeechUnsupported):
		return "Speech recognition is not supported on this system."
	case errors.Is(err, ErrMicrophoneDenied):
		return "Microphone access denied. Please allow microphone access for the recogniser."
	case errors.Is(err, ErrCorruptHistory):
		return "Saved history for this document was unreadable and has been reset."
	case errors.Is(err, ErrTransport):
		return "Could not reach the service. Check your connection and try again."
	case errors.Is(err, ErrServer):
		return "The service returned an error. Try again."
	default:
		return err.Error()
	}
}
