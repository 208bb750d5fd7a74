package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// SpeechRecognizer is a continuous speech-to-text source.
type SpeechRecognizer interface {
	// Check verifies the recogniser can run. It returns
	// domain.ErrSpeechUnsupported when no recogniser is available and
	// domain.ErrMicrophoneDenied when audio input cannot be used.
	Check(ctx context.Context) error

	// Listen starts a recognition session. Each update carries the full
	// running transcript, not a delta. The channel is closed when ctx is
	// cancelled or the recogniser stops; a recogniser failure is sent as
	// a final update with Done and Err set before closing.
	Listen(ctx context.Context) (<-chan domain.TranscriptUpdate, error)
}
