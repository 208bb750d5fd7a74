package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// stderrNotifier prints warnings for one-shot commands. Errors are
// returned by the command itself, so they are only logged.
type stderrNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newStderrNotifier(w io.Writer) *stderrNotifier {
	return &stderrNotifier{w: w}
}

func (n *stderrNotifier) Notify(level driven.NoticeLevel, message string) {
	if level == driven.NoticeError {
		logger.Debug("notice: %s", message)
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s: %s\n", level, message)
}
