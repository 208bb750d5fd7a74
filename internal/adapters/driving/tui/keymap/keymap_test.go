package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"quit", km.Quit, "ctrl+c"},
		{"help", km.Help, "?"},
		{"back", km.Back, "esc"},
		{"submit", km.Submit, "enter"},
		{"up", km.Up, "k"},
		{"down", km.Down, "j"},
		{"delete", km.Delete, "d"},
		{"focus", km.Focus, "tab"},
		{"upload", km.Upload, "ctrl+o"},
		{"speak", km.Speak, "ctrl+r"},
		{"history", km.History, "ctrl+l"},
		{"settings", km.Settings, "ctrl+g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.binding.Keys(), tt.key)
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 4)
	assert.Equal(t, "ask", help[0].Help().Desc)
}

func TestKeyMap_HistoryHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.NotEmpty(t, km.HistoryHelp())
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 4)
	for _, group := range groups {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+o", km.Upload))
	assert.True(t, Matches("delete", km.Delete))
	assert.False(t, Matches("x", km.Delete))
}
