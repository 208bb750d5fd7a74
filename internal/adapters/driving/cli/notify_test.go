package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

func TestStderrNotifier_PrintsWarnings(t *testing.T) {
	buf := new(bytes.Buffer)
	n := newStderrNotifier(buf)

	n.Notify(driven.NoticeWarning, "Saved history was reset")
	n.Notify(driven.NoticeInfo, "Listening")

	assert.Equal(t, "warning: Saved history was reset\ninfo: Listening\n", buf.String())
}

func TestStderrNotifier_LogsErrors(t *testing.T) {
	buf := new(bytes.Buffer)
	logs := new(bytes.Buffer)
	logger.SetOutput(logs)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()
	n := newStderrNotifier(buf)

	n.Notify(driven.NoticeError, "Upload failed")

	assert.Empty(t, buf.String())
	assert.Contains(t, logs.String(), "notice: Upload failed")
}
