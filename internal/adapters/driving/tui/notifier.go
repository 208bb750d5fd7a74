package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

const noticeBuffer = 8

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Notifier queues core notifications until the running program reads them.
// It is created before the App so it can be handed to the chat controller.
type Notifier struct {
	notices chan messages.Notice
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{notices: make(chan messages.Notice, noticeBuffer)}
}

// Notify queues a notice without blocking. When the queue is full the
// oldest notice is dropped.
func (n *Notifier) Notify(level driven.NoticeLevel, message string) {
	notice := messages.Notice{Level: level, Message: message}
	for {
		select {
		case n.notices <- notice:
			return
		default:
		}
		select {
		case <-n.notices:
		default:
		}
	}
}

// wait returns a command that delivers the next notice.
func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		return <-n.notices
	}
}
