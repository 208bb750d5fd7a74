// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// EntryList displays the questions of a conversation log in a navigable
// list. The selection mirrors the controller's cursor.
type EntryList struct {
	entries  []domain.Entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEntryList creates a new entry list component.
func NewEntryList(s *styles.Styles) *EntryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EntryList{
		selected: domain.NoSelection,
		styles:   s,
		width:    80,
		height:   8,
	}
}

// Init initialises the entry list.
func (l *EntryList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *EntryList) Update(msg tea.Msg) (*EntryList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the entry list.
func (l *EntryList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No questions yet")
	}

	lines := make([]string, 0, len(l.entries)+1)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("History (%d)", len(l.entries))))

	visible := l.height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.entries) {
		end = len(l.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.entries[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *EntryList) renderEntry(index int, entry *domain.Entry) string {
	sources := ""
	if n := len(entry.Sources); n > 0 {
		sources = fmt.Sprintf("  [%d]", n)
	}

	maxLen := l.width - 10 - len(sources)
	if maxLen < 10 {
		maxLen = 10
	}
	question := truncate(strings.Join(strings.Fields(entry.Question), " "), maxLen)
	line := fmt.Sprintf("%3d. %s", index+1, question)

	if index == l.selected {
		return l.styles.Selected.Render("> "+line) + l.styles.Muted.Render(sources)
	}
	return l.styles.Normal.Render("  "+line) + l.styles.Muted.Render(sources)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// SetEntries replaces the entries and the selection cursor.
func (l *EntryList) SetEntries(entries []domain.Entry, selected int) {
	l.entries = entries
	l.selected = domain.NoSelection
	l.SetSelected(selected)
}

// Entries returns the current entries.
func (l *EntryList) Entries() []domain.Entry {
	return l.entries
}

// Selected returns the selected index, or domain.NoSelection.
func (l *EntryList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index. Out-of-range values are ignored.
func (l *EntryList) SetSelected(index int) {
	if index >= 0 && index < len(l.entries) {
		l.selected = index
	}
}

// MoveUp moves selection up.
func (l *EntryList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EntryList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EntryList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *EntryList) Count() int {
	return len(l.entries)
}
