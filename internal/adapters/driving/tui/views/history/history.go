// Package history provides the saved conversations browser for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ErrNoHistoryService indicates that no history service was provided.
var ErrNoHistoryService = errors.New("history service not available")

// View lists documents with saved conversations and shows one log at a time.
type View struct {
	styles         *styles.Styles
	historyService driving.HistoryService
	ctx            context.Context

	summaries    []driving.HistorySummary
	selected     int
	scrollOffset int
	loading      bool
	err          error

	// Detail mode shows the saved log of one document.
	detail   string
	entries  []domain.Entry
	viewport viewport.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		historyService: historyService,
		ctx:            context.Background(),
		viewport:       viewport.New(80, 16),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.detail = ""
	v.entries = nil
	v.err = nil
	return v.loadSummaries()
}

func (v *View) loadSummaries() tea.Cmd {
	v.loading = true
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryLoaded{Err: ErrNoHistoryService}
		}
		summaries, err := v.historyService.Documents(v.ctx)
		return messages.HistoryLoaded{Summaries: summaries, Err: err}
	}
}

func (v *View) loadEntries(document string) tea.Cmd {
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryEntriesLoaded{Document: document, Err: ErrNoHistoryService}
		}
		entries, err := v.historyService.Entries(v.ctx, document)
		return messages.HistoryEntriesLoaded{Document: document, Entries: entries, Err: err}
	}
}

func (v *View) clear(document string) tea.Cmd {
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryCleared{Document: document, Err: ErrNoHistoryService}
		}
		err := v.historyService.Clear(v.ctx, document)
		return messages.HistoryCleared{Document: document, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.detail != "" {
			return v.handleDetailKey(msg)
		}
		return v.handleListKey(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.summaries = msg.Summaries
		if v.selected >= len(v.summaries) {
			v.selected = max(len(v.summaries)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.HistoryEntriesLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.detail = msg.Document
		v.entries = msg.Entries
		v.viewport.SetContent(v.renderEntries())
		v.viewport.GotoTop()
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadSummaries()
	}

	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.summaries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if summary, ok := v.current(); ok && !summary.Corrupt {
			return v, v.loadEntries(summary.Document)
		}
	case "x":
		if summary, ok := v.current(); ok {
			return v, v.clear(summary.Document)
		}
	case "r":
		return v, v.loadSummaries()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	return v, nil
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		v.detail = ""
		v.entries = nil
		return v, nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) current() (driving.HistorySummary, bool) {
	if v.selected < 0 || v.selected >= len(v.summaries) {
		return driving.HistorySummary{}, false
	}
	return v.summaries[v.selected], true
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	if v.detail != "" {
		b.WriteString(v.styles.Title.Render(fmt.Sprintf("Saved conversation - %s (%d)", v.detail, len(v.entries))))
		b.WriteString("\n\n")
		b.WriteString(v.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] scroll  [esc] back"))
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Saved conversations (%d)", len(v.summaries))))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
		b.WriteString("\n\n")
	}

	switch {
	case v.loading && len(v.summaries) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.summaries) == 0:
		b.WriteString(v.styles.Muted.Render("No saved conversations"))
	default:
		end := min(v.scrollOffset+v.visibleItemCount(), len(v.summaries))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderSummary(i, v.summaries[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] view  [x] clear  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderSummary(index int, summary driving.HistorySummary) string {
	count := fmt.Sprintf("%d entries", summary.Entries)
	if summary.Entries == 1 {
		count = "1 entry"
	}
	if summary.Corrupt {
		count = "unreadable"
	}
	line := fmt.Sprintf("%s  (%s)", summary.Document, count)

	if index == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	if summary.Corrupt {
		return v.styles.Warning.Render("  " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

func (v *View) renderEntries() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("No entries")
	}
	wrap := lipgloss.NewStyle().Width(v.viewport.Width)

	parts := make([]string, 0, len(v.entries))
	for i, entry := range v.entries {
		var b strings.Builder
		b.WriteString(v.styles.Question.Render(fmt.Sprintf("%d. %s", i+1, entry.Question)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(entry.Answer))
		for _, source := range entry.Sources {
			b.WriteString("\n")
			b.WriteString(v.styles.Source.Render("• " + source))
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
}

// Summaries returns the loaded summaries.
func (v *View) Summaries() []driving.HistorySummary {
	return v.summaries
}

// Detail returns the document shown in detail mode, or "".
func (v *View) Detail() string {
	return v.detail
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
