package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// updateBuffer is the capacity of the transcript update channel. Older
// updates are dropped when the consumer falls behind, which is harmless
// because every update carries the full transcript.
const updateBuffer = 16

// SpeechInput wraps a continuous speech recogniser with idle/listening
// states and a live running transcript.
type SpeechInput struct {
	recognizer driven.SpeechRecognizer

	mu         sync.Mutex
	state      domain.SpeechState
	transcript string
	cancel     context.CancelFunc
	session    uint64
	checked    bool
	checkErr   error

	updates chan domain.TranscriptUpdate
}

// NewSpeechInput creates a speech input adapter. A nil recogniser makes
// speech permanently unsupported.
func NewSpeechInput(recognizer driven.SpeechRecognizer) *SpeechInput {
	return &SpeechInput{
		recognizer: recognizer,
		state:      domain.SpeechIdle,
		updates:    make(chan domain.TranscriptUpdate, updateBuffer),
	}
}

// Check probes the recogniser once. The result is cached: unsupported
// platforms and denied microphones are configuration conditions, not
// per-call errors.
func (s *SpeechInput) Check(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checked {
		return s.checkErr
	}
	s.checked = true
	if s.recognizer == nil {
		s.checkErr = domain.ErrSpeechUnsupported
		return s.checkErr
	}
	s.checkErr = s.recognizer.Check(ctx)
	if s.checkErr != nil {
		logger.Warn("Speech input unavailable: %v", s.checkErr)
	}
	return s.checkErr
}

// Available reports whether Check succeeded.
func (s *SpeechInput) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked && s.checkErr == nil
}

// Start clears the transcript and begins listening. Starting while
// already listening is a no-op. ctx bounds the whole session.
func (s *SpeechInput) Start(ctx context.Context) error {
	if err := s.Check(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SpeechListening {
		return nil
	}

	listenCtx, cancel := context.WithCancel(ctx)
	stream, err := s.recognizer.Listen(listenCtx)
	if err != nil {
		cancel()
		return err
	}

	s.transcript = ""
	s.state = domain.SpeechListening
	s.cancel = cancel
	s.session++
	logger.Debug("Speech session %d started", s.session)

	go s.pump(s.session, stream)
	return nil
}

// Stop ends the listening session. The transcript is kept.
func (s *SpeechInput) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *SpeechInput) stopLocked() {
	if s.state != domain.SpeechListening {
		return
	}
	s.cancel()
	s.cancel = nil
	s.state = domain.SpeechIdle
	logger.Debug("Speech session %d stopped", s.session)
}

// pump forwards recogniser updates for one session. Updates from a
// session that has since been stopped or replaced are dropped.
func (s *SpeechInput) pump(session uint64, stream <-chan domain.TranscriptUpdate) {
	var endErr error
	for update := range stream {
		if update.Done {
			endErr = update.Err
			continue
		}
		s.mu.Lock()
		current := s.session == session && s.state == domain.SpeechListening
		if current {
			s.transcript = update.Transcript
		}
		s.mu.Unlock()
		if current {
			s.publish(domain.TranscriptUpdate{Transcript: update.Transcript})
		}
	}

	s.mu.Lock()
	if s.session != session {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	transcript := s.transcript
	s.mu.Unlock()

	if endErr != nil {
		logger.Warn("Speech session %d ended: %v", session, endErr)
	}
	s.publish(domain.TranscriptUpdate{Transcript: transcript, Done: true, Err: endErr})
}

// publish delivers without blocking, dropping the oldest pending update.
func (s *SpeechInput) publish(update domain.TranscriptUpdate) {
	for {
		select {
		case s.updates <- update:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Updates delivers running transcripts and a final Done update per session.
func (s *SpeechInput) Updates() <-chan domain.TranscriptUpdate {
	return s.updates
}

// Listening reports whether a session is active.
func (s *SpeechInput) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domain.SpeechListening
}

// State returns the adapter state.
func (s *SpeechInput) State() domain.SpeechState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the running transcript.
func (s *SpeechInput) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// ResetTranscript clears the running transcript.
func (s *SpeechInput) ResetTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = ""
}
