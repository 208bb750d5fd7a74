package domain

// SpeechState is the state of the speech input adapter.
type SpeechState string

// Speech states.
const (
	SpeechIdle      SpeechState = "idle"
	SpeechListening SpeechState = "listening"
)

// TranscriptUpdate carries the full running transcript of a listening
// session. Updates are not deltas: each one replaces the previous text.
type TranscriptUpdate struct {
	// Transcript is the complete text recognised so far.
	Transcript string

	// Done marks the end of the listening session.
	Done bool

	// Err is set when the session ended because the recogniser failed.
	Err error
}
