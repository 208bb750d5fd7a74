package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func testEntries() []domain.Entry {
	return []domain.Entry{
		{Question: "What is X?", Answer: "X is a thing.", Sources: []string{"p1"}},
		{Question: "Why?", Answer: "Because.", Sources: []string{}},
		{Question: "When?", Answer: "Now.", Sources: []string{"p2", "p3"}},
	}
}

func TestNewEntryList(t *testing.T) {
	l := NewEntryList(nil)

	require.NotNil(t, l)
	assert.Equal(t, domain.NoSelection, l.Selected())
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.Init())
}

func TestEntryList_SetEntries(t *testing.T) {
	l := NewEntryList(nil)

	l.SetEntries(testEntries(), 2)

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, 2, l.Selected())
}

func TestEntryList_SetEntries_InvalidSelection(t *testing.T) {
	l := NewEntryList(nil)
	l.SetEntries(testEntries(), 1)

	l.SetEntries(testEntries()[:1], 5)

	assert.Equal(t, domain.NoSelection, l.Selected())
}

func TestEntryList_MoveUpDown(t *testing.T) {
	l := NewEntryList(nil)
	l.SetEntries(testEntries(), 0)

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.MoveUp()
	assert.Equal(t, 1, l.Selected())
}

func TestEntryList_Update_Keys(t *testing.T) {
	l := NewEntryList(nil)
	l.SetEntries(testEntries(), 2)

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
}

func TestEntryList_View_Empty(t *testing.T) {
	l := NewEntryList(nil)

	assert.Contains(t, l.View(), "No questions yet")
}

func TestEntryList_View_WithEntries(t *testing.T) {
	l := NewEntryList(nil)
	l.SetEntries(testEntries(), 0)

	view := l.View()

	assert.Contains(t, view, "History (3)")
	assert.Contains(t, view, "What is X?")
	assert.Contains(t, view, "[2]")
	assert.Contains(t, view, "> ")
}

func TestEntryList_View_ScrollsToSelection(t *testing.T) {
	l := NewEntryList(nil)
	l.SetDimensions(80, 2)
	l.SetEntries(testEntries(), 2)

	view := l.View()

	assert.Contains(t, view, "When?")
	assert.NotContains(t, view, "What is X?")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}
