// Package command provides a speech recogniser backed by an external
// speech-to-text program.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure Recognizer implements the interface.
var _ driven.SpeechRecognizer = (*Recognizer)(nil)

// maxLine bounds a single transcript line.
const maxLine = 1 << 20

// Config holds configuration for the command recogniser.
type Config struct {
	// Command is the recogniser executable, resolved through PATH.
	Command string

	// Args are passed when listening.
	Args []string

	// CheckArgs, when set, run the command once as a microphone probe.
	CheckArgs []string
}

// Recognizer runs Command and treats every stdout line as the full
// running transcript.
type Recognizer struct {
	cfg Config
}

// New creates a command recogniser.
func New(cfg Config) *Recognizer {
	return &Recognizer{cfg: cfg}
}

// Check resolves the command and runs the optional probe.
func (r *Recognizer) Check(ctx context.Context) error {
	path, err := r.lookPath()
	if err != nil {
		return err
	}
	if len(r.cfg.CheckArgs) == 0 {
		return nil
	}

	out, err := exec.CommandContext(ctx, path, r.cfg.CheckArgs...).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug("Speech probe exited with %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(out)))
			return fmt.Errorf("%w: probe exited with status %d", domain.ErrMicrophoneDenied, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", domain.ErrSpeechUnsupported, err)
	}
	return nil
}

// Listen starts the recogniser process. Cancelling ctx kills it.
func (r *Recognizer) Listen(ctx context.Context) (<-chan domain.TranscriptUpdate, error) {
	path, err := r.lookPath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, r.cfg.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.cfg.Command, err)
	}
	logger.Debug("Started recogniser %s (pid %d)", r.cfg.Command, cmd.Process.Pid)

	updates := make(chan domain.TranscriptUpdate)
	go func() {
		defer close(updates)

		// Unblock the scanner on cancel even if a grandchild keeps the pipe open.
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				_ = stdout.Close()
			case <-stop:
			}
		}()

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 4096), maxLine)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case updates <- domain.TranscriptUpdate{Transcript: line}:
			case <-ctx.Done():
				_ = cmd.Wait()
				return
			}
		}

		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			return
		}
		if waitErr == nil {
			waitErr = scanner.Err()
		}
		if waitErr != nil {
			select {
			case updates <- domain.TranscriptUpdate{Done: true, Err: fmt.Errorf("recogniser %s: %w", r.cfg.Command, waitErr)}:
			case <-ctx.Done():
			}
		}
	}()

	return updates, nil
}

func (r *Recognizer) lookPath() (string, error) {
	if r.cfg.Command == "" {
		return "", fmt.Errorf("%w: no recogniser command configured", domain.ErrSpeechUnsupported)
	}
	path, err := exec.LookPath(r.cfg.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSpeechUnsupported, err)
	}
	return path, nil
}
