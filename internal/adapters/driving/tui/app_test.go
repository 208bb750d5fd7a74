package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts(t))
	require.NoError(t, err)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.False(t, app.Ready())
	assert.NoError(t, app.Err())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing chat", &Ports{}, ErrMissingChatController},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApp(tt.ports)

			assert.Nil(t, app)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "No document loaded")
}

func TestApp_Update_ViewChanged(t *testing.T) {
	tests := []struct {
		view    messages.ViewType
		wantCmd bool
		render  string
	}{
		{messages.ViewUpload, true, "Upload PDF"},
		{messages.ViewHistory, true, "Saved conversations"},
		{messages.ViewSettings, true, "Settings"},
		{messages.ViewHelp, false, "Press any key to return"},
		{messages.ViewChat, true, "No document loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app := newTestApp(t)
			app.SetDimensions(120, 40)

			_, cmd := app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Equal(t, tt.wantCmd, cmd != nil)
			assert.Contains(t, app.View(), tt.render)
		})
	}
}

func TestApp_HelpView_AnyKeyReturns(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 40)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_FileChosen_Uploads(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 40)
	app.Update(messages.ViewChanged{View: messages.ViewUpload})

	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	_, cmd := app.Update(messages.FileChosen{Path: path})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChat, app.CurrentView())

	msg := cmd()
	require.IsType(t, messages.UploadCompleted{}, msg)
	app.Update(msg)

	assert.Equal(t, driving.StateReady, app.ports.Chat.State())
	assert.Contains(t, app.View(), "paper.pdf")
}

func TestApp_Notice_ForwardsAndWaits(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 40)

	_, cmd := app.Update(messages.Notice{Level: driven.NoticeWarning, Message: "History was reset"})

	assert.NotNil(t, cmd)
	assert.Contains(t, app.View(), "History was reset")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 40)
	testErr := errors.New("connection refused")

	app.Update(messages.ErrorOccurred{Err: testErr})

	assert.Equal(t, testErr, app.Err())
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"quit message", messages.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			_, cmd := app.Update(tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_SetDimensions(t *testing.T) {
	app := newTestApp(t)

	app.SetDimensions(100, 50)

	assert.Equal(t, 100, app.width)
	assert.Equal(t, 50, app.height)
	assert.True(t, app.Ready())
}

func TestApp_HistoryCleared_ReloadsActiveConversation(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 40)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	_, cmd := app.Update(messages.FileChosen{Path: path})
	app.Update(cmd())
	app.ports.Chat.SetQuestion("What is it?")
	_, err := app.ports.Chat.Submit(ctx)
	require.NoError(t, err)
	require.NoError(t, app.ports.History.Clear(ctx, "paper.pdf"))

	_, cmd = app.Update(messages.HistoryCleared{Document: "paper.pdf"})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var reloaded bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(messages.HistoryReloaded); ok {
			require.NoError(t, msg.Err)
			app.Update(msg)
			reloaded = true
		}
	}

	require.True(t, reloaded)
	assert.Empty(t, app.ports.Chat.Entries())
	_, err = app.ports.History.Entries(ctx, "paper.pdf")
	assert.Error(t, err)
}
