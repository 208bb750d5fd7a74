// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
)

const (
	placeholderReady      = "Ask a question about the document..."
	placeholderNoDocument = "Upload a PDF first (ctrl+o)"
	placeholderListening  = "Listening..."
)

// QuestionInput wraps a bubbles textinput with question styling and a
// dictation indicator.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	listening bool
}

// NewQuestionInput creates a new question input component.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholderNoDocument
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 50

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the input.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render("Question: ")
	if q.listening {
		label = q.styles.Recording.Render("● REC ")
	}
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
	q.textinput.CursorEnd()
}

// SetDocumentLoaded switches the placeholder between the ready and
// no-document hints.
func (q *QuestionInput) SetDocumentLoaded(loaded bool) {
	if q.listening {
		return
	}
	if loaded {
		q.textinput.Placeholder = placeholderReady
	} else {
		q.textinput.Placeholder = placeholderNoDocument
	}
}

// SetListening toggles the dictation indicator.
func (q *QuestionInput) SetListening(listening bool) {
	q.listening = listening
	if listening {
		q.textinput.Placeholder = placeholderListening
	} else {
		q.textinput.Placeholder = placeholderReady
	}
}

// Listening returns whether the dictation indicator is shown.
func (q *QuestionInput) Listening() bool {
	return q.listening
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Account for label and padding
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
