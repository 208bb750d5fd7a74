// Package chat provides the main question/answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ErrNoChatController indicates that no chat controller was provided.
var ErrNoChatController = errors.New("chat controller is required")

// chrome is the number of lines used by everything except the history
// list and the answer pane.
const chrome = 12

// View shows the loaded document, its question history, the selected
// answer with sources, the question input and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.EntryList
	answer    viewport.Model
	statusbar *status.Bar

	chat driving.ChatController
	ctx  context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a question, false = navigating history
	uploading  string
	waiting    bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatController) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		list:       list.NewEntryList(s),
		answer:     viewport.New(80, 8),
		statusbar:  status.NewBar(s, km),
		chat:       chat,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	v.refresh()
	return v.input.Init()
}

// Update handles messages for the chat view.
//
//nolint:gocyclo // central message handler
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.UploadCompleted:
		v.uploading = ""
		v.refresh()
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.ClearNotice()
		return v, nil

	case messages.AnswerReceived:
		v.refresh()
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.ClearNotice()
		v.input.SetValue(v.chat.Question())
		return v, nil

	case messages.EntryDeleted:
		v.refresh()
		if msg.Err != nil {
			v.setError(msg.Err)
		}
		return v, nil

	case messages.HistoryReloaded:
		v.refresh()
		if msg.Err != nil {
			v.setError(msg.Err)
		}
		return v, nil

	case messages.SpeechChecked:
		if msg.Err != nil {
			v.statusbar.SetNotice(driven.NoticeWarning, domain.UserMessage(msg.Err))
		}
		return v, nil

	case messages.ListeningChanged:
		v.setListening(msg.Listening)
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		if msg.Listening {
			return v, v.waitForTranscript()
		}
		return v, nil

	case messages.TranscriptReceived:
		return v.handleTranscript(msg.Update)

	case messages.Notice:
		v.statusbar.SetNotice(msg.Level, msg.Message)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	var cmd tea.Cmd
	v.answer, cmd = v.answer.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Upload):
		return v, changeView(messages.ViewUpload)
	case key.Matches(msg, v.keymap.History):
		return v, changeView(messages.ViewHistory)
	case key.Matches(msg, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)
	case key.Matches(msg, v.keymap.Speak):
		return v, v.toggleSpeech()
	case key.Matches(msg, v.keymap.Focus):
		return v, v.setFocus(!v.focusInput)
	case key.Matches(msg, v.keymap.ScrollUp):
		v.answer.HalfPageUp()
		return v, nil
	case key.Matches(msg, v.keymap.ScrollDown):
		v.answer.HalfPageDown()
		return v, nil
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleHistoryKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return v, v.submit()
	case tea.KeyEsc:
		return v, v.setFocus(false)
	default:
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.chat != nil {
		v.chat.SetQuestion(v.input.Value())
	}
	return v, cmd
}

func (v *View) handleHistoryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
		v.selectCurrent()
		return v, nil
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
		v.selectCurrent()
		return v, nil
	case key.Matches(msg, v.keymap.Delete):
		return v, v.deleteSelected()
	case key.Matches(msg, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case key.Matches(msg, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	case msg.Type == tea.KeyEsc, msg.String() == "i":
		return v, v.setFocus(true)
	}
	return v, nil
}

func (v *View) handleTranscript(update domain.TranscriptUpdate) (*View, tea.Cmd) {
	v.waiting = false
	if v.chat == nil {
		return v, nil
	}

	if !update.Done {
		v.chat.ApplyTranscript(update.Transcript)
		v.input.SetValue(v.chat.Question())
	}

	// A Done update may belong to a session that has since been replaced.
	listening := v.chat.Listening()
	v.setListening(listening)
	if listening {
		return v, v.waitForTranscript()
	}
	if update.Done && update.Err != nil {
		v.setError(update.Err)
	}
	return v, nil
}

// Upload reads path and submits it, switching to the uploading state.
func (v *View) Upload(path string) tea.Cmd {
	if v.chat == nil {
		return errorCmd(ErrNoChatController)
	}
	name := filepath.Base(path)
	v.uploading = name
	v.err = nil
	v.statusbar.ClearNotice()
	v.statusbar.SetState(driving.StateUploading)

	ctx := v.ctx
	chat := v.chat
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return messages.UploadCompleted{File: name, Err: fmt.Errorf("read %s: %w", name, err)}
		}
		err = chat.SelectFile(ctx, domain.NewUploadFile(path, data))
		return messages.UploadCompleted{File: name, Err: err}
	}
}

func (v *View) submit() tea.Cmd {
	if v.chat == nil {
		return errorCmd(ErrNoChatController)
	}
	v.chat.SetQuestion(v.input.Value())
	if v.chat.Listening() {
		v.chat.StopListening()
		v.setListening(false)
	}
	v.statusbar.ClearNotice()
	v.statusbar.SetState(driving.StateAsking)

	ctx := v.ctx
	chat := v.chat
	return func() tea.Msg {
		entry, err := chat.Submit(ctx)
		return messages.AnswerReceived{Entry: entry, Err: err}
	}
}

func (v *View) deleteSelected() tea.Cmd {
	if v.chat == nil {
		return errorCmd(ErrNoChatController)
	}
	index := v.list.Selected()
	if index == domain.NoSelection {
		return nil
	}
	ctx := v.ctx
	chat := v.chat
	return func() tea.Msg {
		return messages.EntryDeleted{Index: index, Err: chat.Delete(ctx, index)}
	}
}

// ReloadHistory re-reads the active document's saved history.
func (v *View) ReloadHistory() tea.Cmd {
	if v.chat == nil {
		return nil
	}
	ctx := v.ctx
	chat := v.chat
	return func() tea.Msg {
		return messages.HistoryReloaded{Err: chat.ReloadHistory(ctx)}
	}
}

func (v *View) toggleSpeech() tea.Cmd {
	if v.chat == nil {
		return errorCmd(ErrNoChatController)
	}
	if v.chat.Listening() {
		v.chat.StopListening()
		v.setListening(false)
		return nil
	}
	ctx := v.ctx
	chat := v.chat
	return func() tea.Msg {
		err := chat.StartListening(ctx)
		return messages.ListeningChanged{Listening: err == nil, Err: err}
	}
}

// waitForTranscript returns a command that delivers the next running
// transcript. At most one wait is outstanding.
func (v *View) waitForTranscript() tea.Cmd {
	if v.waiting || v.chat == nil {
		return nil
	}
	v.waiting = true
	updates := v.chat.TranscriptUpdates()
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return messages.TranscriptReceived{Update: domain.TranscriptUpdate{Done: true}}
		}
		return messages.TranscriptReceived{Update: update}
	}
}

func (v *View) selectCurrent() {
	if v.chat == nil {
		return
	}
	if err := v.chat.Select(v.list.Selected()); err != nil {
		v.setError(err)
		return
	}
	v.refreshAnswer()
}

func (v *View) setFocus(input bool) tea.Cmd {
	v.focusInput = input
	v.statusbar.SetHistoryMode(!input)
	if input {
		return v.input.Focus()
	}
	v.input.Blur()
	return nil
}

func (v *View) setListening(listening bool) {
	v.input.SetListening(listening)
	v.statusbar.SetListening(listening)
	if !listening {
		v.input.SetDocumentLoaded(v.chat != nil && v.chat.Session() != nil)
	}
}

func (v *View) setError(err error) {
	v.err = err
	level := driven.NoticeError
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrBusy) {
		level = driven.NoticeWarning
	}
	v.statusbar.SetNotice(level, domain.UserMessage(err))
}

// refresh copies controller state into the components.
func (v *View) refresh() {
	if v.chat == nil {
		return
	}
	v.statusbar.SetState(v.chat.State())
	selected, ok := v.chat.Selected()
	if !ok {
		selected = domain.NoSelection
	}
	v.list.SetEntries(v.chat.Entries(), selected)
	v.input.SetDocumentLoaded(v.chat.Session() != nil)
	v.refreshAnswer()
}

func (v *View) refreshAnswer() {
	if v.chat == nil {
		return
	}
	entry, ok := v.chat.SelectedEntry()
	if !ok {
		v.answer.SetContent(v.styles.Muted.Render("Select a question to see its answer."))
		return
	}
	v.answer.SetContent(v.renderEntry(entry))
	v.answer.GotoTop()
}

func (v *View) renderEntry(entry domain.Entry) string {
	wrap := lipgloss.NewStyle().Width(v.answer.Width)

	var b strings.Builder
	b.WriteString(v.styles.Question.Render("Q: " + entry.Question))
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(entry.Answer))
	if len(entry.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Subtitle.Render("Sources"))
		for _, source := range entry.Sources {
			b.WriteString("\n")
			b.WriteString(v.styles.Source.Width(v.answer.Width).Render("• " + source))
		}
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections,
		v.styles.Title.Render("pdfchat"),
		v.renderDocument(),
		"",
		v.list.View(),
		"",
		v.styles.Border.Render(v.answer.View()),
		v.input.View(),
		v.statusbar.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDocument() string {
	if v.uploading != "" {
		return v.styles.Normal.Render(v.uploading) + "  " +
			v.styles.Muted.Render(domain.UploadStatusUploading.Description())
	}
	if v.chat == nil {
		return ""
	}
	status := v.chat.UploadStatus()
	session := v.chat.Session()
	if session == nil {
		line := v.styles.Muted.Render("No document loaded. Press ctrl+o to upload a PDF.")
		if status == domain.UploadStatusError {
			line += "  " + v.styles.Error.Render(status.Description())
		}
		return line
	}
	return v.styles.Normal.Render(session.Name()) + "  " + v.styles.Success.Render(status.Description())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	body := height - chrome
	if body < 6 {
		body = 6
	}
	listHeight := body / 3
	if listHeight < 3 {
		listHeight = 3
	}

	v.input.SetWidth(width)
	v.list.SetDimensions(width, listHeight)
	v.answer.Width = width - 2
	v.answer.Height = body - listHeight
	v.statusbar.SetWidth(width)
	v.refreshAnswer()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the text in the question input.
func (v *View) Question() string {
	return v.input.Value()
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Listening returns whether the dictation indicator is shown.
func (v *View) Listening() bool {
	return v.input.Listening()
}

// Notice returns the status bar notice.
func (v *View) Notice() string {
	return v.statusbar.Notice()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: err}
	}
}
