package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := commandNames(settingsCmd)

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "set")
	assert.Contains(t, names, "wizard")
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Service]")
	assert.Contains(t, out, domain.DefaultServiceBaseURL)
	assert.Contains(t, out, "Timeout: 2m0s")
	assert.Contains(t, out, "Rate limit: none")
	assert.Contains(t, out, "Key prefix: pdfqa_")
	assert.Contains(t, out, "Mode: Disabled")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_SpeechCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("speech.mode", "command"))

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Mode: External recogniser command")
	assert.Contains(t, out, "Command: (not set)")
	assert.Contains(t, out, "Warning:")
}

func TestSettingsSetAndGet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "set", "service.base_url", "https://example.com/")
	require.NoError(t, err)
	assert.Contains(t, out, "Set service.base_url")

	out, err = execute(t, "settings", "get", "service.base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", strings.TrimSpace(out))
}

func TestSettingsSetCmd_InvalidValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "set", "speech.mode", "telepathy")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsGetCmd_UnknownKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "get", "nope")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsWizardCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("https://qa.example.com\n2\n3\n/tmp/dictation.txt\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Configuration Complete!")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://qa.example.com", settings.Service.BaseURL)
	assert.Equal(t, domain.HistoryKeyByDocumentID, settings.History.KeyBy)
	assert.Equal(t, domain.SpeechModeTranscript, settings.Speech.Mode)
	assert.Equal(t, "/tmp/dictation.txt", settings.Speech.TranscriptFile)
}

func TestSettingsWizardCmd_DefaultsKeepCurrent(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("\n\n\n"))
	defer rootCmd.SetIn(nil)

	_, err := execute(t, "settings", "wizard")

	require.NoError(t, err)
	settings, err := settingsService.Get()
	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Service, settings.Service)
	assert.Equal(t, defaults.History, settings.History)
	assert.Equal(t, domain.SpeechModeNone, settings.Speech.Mode)
}

func TestSettingsWizardCmd_CommandRequired(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("\n\n2\n\n"))
	defer rootCmd.SetIn(nil)

	_, err := execute(t, "settings", "wizard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "recogniser command is required")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestValueOrUnset(t *testing.T) {
	assert.Equal(t, "(not set)", valueOrUnset(""))
	assert.Equal(t, "whisper", valueOrUnset("whisper"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
