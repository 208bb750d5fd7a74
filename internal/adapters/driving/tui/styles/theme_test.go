package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title":      s.Title,
		"Subtitle":   s.Subtitle,
		"Selected":   s.Selected,
		"Question":   s.Question,
		"Source":     s.Source,
		"Recording":  s.Recording,
		"InputField": s.InputField,
		"StatusBar":  s.StatusBar,
		"Border":     s.Border,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_Notice(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Error, s.Notice(driven.NoticeError))
	assert.Equal(t, s.Warning, s.Notice(driven.NoticeWarning))
	assert.Equal(t, s.Success, s.Notice(driven.NoticeInfo))
	assert.Equal(t, s.Normal, s.Notice("other"))
}
