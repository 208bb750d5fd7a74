package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/upload"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	chatView     *chat.View
	uploadView   *upload.View
	historyView  *history.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	h := help.New()
	h.ShowAll = true

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         h,
		chatView:     chat.NewView(s, km, ports.Chat),
		uploadView:   upload.NewView(s),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("pdfchat"),
		a.chatView.Init(),
		a.checkSpeech(),
	}
	if a.ports.Notices != nil {
		cmds = append(cmds, a.ports.Notices.wait())
	}
	return tea.Batch(cmds...)
}

func (a *App) checkSpeech() tea.Cmd {
	ctx := a.ctx
	chatController := a.ports.Chat
	return func() tea.Msg {
		return messages.SpeechChecked{Err: chatController.CheckSpeech(ctx)}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewUpload:
			return a, a.uploadView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewHelp:
			// Help is rendered from the keymap.
		}
		return a, nil

	case messages.FileChosen:
		a.currentView = messages.ViewChat
		return a, a.chatView.Upload(msg.Path)

	case messages.Notice:
		a.chatView, cmd = a.chatView.Update(msg)
		if a.ports.Notices != nil {
			cmd = tea.Batch(cmd, a.ports.Notices.wait())
		}
		return a, cmd

	case messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		if msg.Err == nil {
			cmd = tea.Batch(cmd, a.chatView.ReloadHistory())
		}
		return a, cmd

	case messages.UploadCompleted, messages.AnswerReceived, messages.EntryDeleted,
		messages.HistoryReloaded, messages.SpeechChecked, messages.ListeningChanged, messages.TranscriptReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryEntriesLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, a.quit()
	}

	// Forward other messages (cursor blink, directory reads) to the active view
	return a, a.updateCurrent(msg)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Any key leaves help
		if _, ok := msg.(tea.KeyMsg); ok {
			a.currentView = messages.ViewChat
		}
	}
	return cmd
}

func (a *App) quit() tea.Cmd {
	a.ports.Chat.StopListening()
	return tea.Quit
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewUpload:
		return a.uploadView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chatView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.View(a.keymap) + "\n\n" +
		a.styles.Help.Render("Press any key to return")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.chatView.SetDimensions(width, height)
	a.uploadView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
