// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// row is one editable setting.
type row struct {
	key   string
	value string
}

// View lists every setting and edits one value at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	rows     []row
	settings *domain.AppSettings
	err      error
	saved    bool

	selected int
	editing  bool
	editor   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editor := textinput.New()
	editor.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		editor:          editor,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = v.loadRows()
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.editing = false
		v.editor.Blur()
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) loadRows() error {
	keys := v.settingsService.Keys()
	rows := make([]row, 0, len(keys))
	for _, key := range keys {
		value, err := v.settingsService.Value(key)
		if err != nil {
			return err
		}
		rows = append(rows, row{key: key, value: value})
	}
	v.rows = rows
	if v.selected >= len(v.rows) {
		v.selected = 0
	}
	return nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected < len(v.rows) {
			v.editing = true
			v.saved = false
			v.editor.SetValue(v.rows[v.selected].value)
			v.editor.CursorEnd()
			return v, v.editor.Focus()
		}
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.editor.Blur()
		return v, nil
	case keyEnter:
		return v, v.save(v.rows[v.selected].key, v.editor.Value())
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) save(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: v.settingsService.Set(key, value)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, r := range v.rows {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		value := r.value
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%s%-28s %s", indicator, r.key, value)
		if i == v.selected && !v.editing {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
		if i == v.selected && v.editing {
			b.WriteString("    ")
			b.WriteString(v.editor.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderStatus() string {
	if v.settingsService == nil {
		return ""
	}
	if err := v.settingsService.Validate(); err != nil {
		return v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error()))
	}
	if v.saved {
		return v.styles.Success.Render("Saved. Restart pdfchat to apply service and speech changes.")
	}
	return v.styles.Success.Render("Configuration is valid")
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.Width = max(width-8, 20)
}

// Editing returns whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.saved = false
	v.err = nil
	v.editor.SetValue("")
	v.editor.Blur()
}
