// Package upload provides the PDF file picker view for the TUI.
package upload

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// chrome is the number of lines around the file list.
const chrome = 7

// View lets the user browse for a PDF to upload.
type View struct {
	styles *styles.Styles
	picker filepicker.Model

	notice string
	width  int
	height int
	ready  bool
}

// NewView creates a new upload view starting in the working directory.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	picker := filepicker.New()
	picker.AllowedTypes = []string{
		domain.SupportedExtension,
		strings.ToUpper(domain.SupportedExtension),
	}
	picker.AutoHeight = false
	picker.ShowPermissions = false
	picker.SetHeight(10)
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	return &View{
		styles: s,
		picker: picker,
	}
}

// SetDirectory changes the directory shown by the next Init.
func (v *View) SetDirectory(dir string) {
	v.picker.CurrentDirectory = dir
}

// Directory returns the directory being browsed.
func (v *View) Directory() string {
	return v.picker.CurrentDirectory
}

// Init reads the current directory.
func (v *View) Init() tea.Cmd {
	v.notice = ""
	return v.picker.Init()
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		return v, nil
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.notice = ""
		return v, func() tea.Msg {
			return messages.FileChosen{Path: path}
		}
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.notice = filepath.Base(path) + " is not a PDF file."
		return v, cmd
	}
	return v, cmd
}

// View renders the upload view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload PDF"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(v.picker.View())
	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] open/select  [h] parent  [esc] back"))

	return b.String()
}

// Notice returns the last selection warning.
func (v *View) Notice() string {
	return v.notice
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	rows := height - chrome
	if rows < 3 {
		rows = 3
	}
	v.picker.SetHeight(rows)
}
