// Package transcript provides a speech recogniser that follows a transcript
// file kept up to date by an external dictation tool.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure Recognizer implements the interface.
var _ driven.SpeechRecognizer = (*Recognizer)(nil)

// Recognizer watches a single transcript file. Each change delivers the
// whole trimmed file content as the running transcript.
type Recognizer struct {
	path string
}

// New creates a transcript file recogniser.
func New(path string) *Recognizer {
	return &Recognizer{path: path}
}

// Check verifies the transcript location is usable.
func (r *Recognizer) Check(_ context.Context) error {
	if r.path == "" {
		return fmt.Errorf("%w: no transcript file configured", domain.ErrSpeechUnsupported)
	}
	info, err := os.Stat(filepath.Dir(r.path))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: transcript directory %s does not exist", domain.ErrSpeechUnsupported, filepath.Dir(r.path))
	}
	if _, err := r.read(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrMicrophoneDenied, err)
	}
	return nil
}

// Listen watches the transcript file until ctx is cancelled. Content
// present before Listen is treated as stale and not delivered.
func (r *Recognizer) Listen(ctx context.Context) (<-chan domain.TranscriptUpdate, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are followed.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(r.path), err)
	}

	last, _ := r.read()
	updates := make(chan domain.TranscriptUpdate)

	go func() {
		defer close(updates)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				text, changed := r.handleEvent(event, last)
				if !changed {
					continue
				}
				last = text
				select {
				case updates <- domain.TranscriptUpdate{Transcript: text}:
				case <-ctx.Done():
					return
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Transcript watcher error: %v", werr)
				select {
				case updates <- domain.TranscriptUpdate{Done: true, Err: werr}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	return updates, nil
}

// handleEvent returns the new transcript if event changed the watched file.
func (r *Recognizer) handleEvent(event fsnotify.Event, last string) (string, bool) {
	if filepath.Clean(event.Name) != filepath.Clean(r.path) {
		return "", false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	text, err := r.read()
	if err != nil {
		logger.Debug("Reading transcript failed: %v", err)
		return "", false
	}
	// Truncation before a rewrite shows up as an empty file.
	if text == "" || text == last {
		return "", false
	}
	return text, true
}

func (r *Recognizer) read() (string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
