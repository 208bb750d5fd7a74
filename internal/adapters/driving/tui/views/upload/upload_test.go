package upload

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
)

// newLoadedView returns a view browsing a directory holding files.
func newLoadedView(t *testing.T, files ...string) (*View, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o600))
	}

	v := NewView(nil)
	v.SetDimensions(80, 24)
	v.SetDirectory(dir)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v, dir
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotEmpty(t, v.Directory())
}

func TestView_SelectPDF(t *testing.T) {
	v, dir := newLoadedView(t, "a.pdf", "notes.txt")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.FileChosen{Path: filepath.Join(dir, "a.pdf")}, cmd())
}

func TestView_SelectUppercaseExtension(t *testing.T) {
	v, dir := newLoadedView(t, "REPORT.PDF")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.FileChosen{Path: filepath.Join(dir, "REPORT.PDF")}, cmd())
}

func TestView_SelectNonPDF(t *testing.T) {
	v, _ := newLoadedView(t, "notes.txt")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "notes.txt is not a PDF file.", v.Notice())
	assert.Contains(t, v.View(), "not a PDF")
}

func TestView_Escape(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())
}

func TestView_Render(t *testing.T) {
	v, dir := newLoadedView(t, "a.pdf")

	view := v.View()

	assert.Contains(t, view, "Upload PDF")
	assert.Contains(t, view, dir)
	assert.Contains(t, view, "a.pdf")
}
