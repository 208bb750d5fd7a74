// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Bar displays the controller state, the latest notice and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       driving.ChatState
	listening   bool
	historyMode bool
	noticeLevel driven.NoticeLevel
	notice      string
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  driving.StateNoDocument,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	if b.notice != "" {
		return b.styles.Notice(b.noticeLevel).Render(b.notice)
	}
	if b.listening {
		return b.styles.Recording.Render("Listening...")
	}

	switch b.state {
	case driving.StateUploading:
		return b.styles.Muted.Render("Uploading...")
	case driving.StateAsking:
		return b.styles.Muted.Render("Thinking...")
	case driving.StateReady:
		return b.styles.Normal.Render("Ready")
	case driving.StateNoDocument:
		return b.styles.Muted.Render("No document")
	}
	return b.styles.Muted.Render(b.state.String())
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	if b.historyMode {
		bindings = b.keymap.HistoryHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		hints = append(hints, hint(binding))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(binding key.Binding) string {
	h := binding.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the controller state shown when there is no notice.
func (b *Bar) SetState(state driving.ChatState) {
	b.state = state
}

// State returns the displayed controller state.
func (b *Bar) State() driving.ChatState {
	return b.state
}

// SetListening toggles the dictation indicator.
func (b *Bar) SetListening(listening bool) {
	b.listening = listening
}

// SetHistoryMode switches the hints to the history list bindings.
func (b *Bar) SetHistoryMode(on bool) {
	b.historyMode = on
}

// SetNotice shows a notice until cleared.
func (b *Bar) SetNotice(level driven.NoticeLevel, message string) {
	b.noticeLevel = level
	b.notice = message
}

// Notice returns the current notice text.
func (b *Bar) Notice() string {
	return b.notice
}

// ClearNotice removes the current notice.
func (b *Bar) ClearNotice() {
	b.notice = ""
	b.noticeLevel = ""
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
