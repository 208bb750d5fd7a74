package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyServiceBaseURL   = "service.base_url"
	keyServiceTimeout   = "service.timeout_seconds"
	keyServiceRPS       = "service.requests_per_second"
	keyHistoryKeyPrefix = "history.key_prefix"
	keyHistoryKeyBy     = "history.key_by"
	keySpeechMode       = "speech.mode"
	keySpeechCommand    = "speech.command"
	keySpeechArgs       = "speech.args"
	keySpeechCheckArgs  = "speech.check_args"
	keySpeechTranscript = "speech.transcript_file"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Service: domain.ServiceSettings{
			BaseURL:           strings.TrimRight(s.getString(keyServiceBaseURL, defaults.Service.BaseURL), "/"),
			TimeoutSeconds:    s.getInt(keyServiceTimeout, defaults.Service.TimeoutSeconds),
			RequestsPerSecond: s.configStore.GetFloat(keyServiceRPS),
		},
		History: domain.HistorySettings{
			KeyPrefix: s.getString(keyHistoryKeyPrefix, defaults.History.KeyPrefix),
			KeyBy:     s.getHistoryKeyBy(defaults.History.KeyBy),
		},
		Speech: domain.SpeechSettings{
			Mode:           s.getSpeechMode(defaults.Speech.Mode),
			Command:        s.configStore.GetString(keySpeechCommand),
			Args:           s.configStore.GetStringSlice(keySpeechArgs),
			CheckArgs:      s.configStore.GetStringSlice(keySpeechCheckArgs),
			TranscriptFile: s.configStore.GetString(keySpeechTranscript),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save service settings
	if err := s.configStore.Set(keyServiceBaseURL, settings.Service.BaseURL); err != nil {
		return fmt.Errorf("save service base_url: %w", err)
	}
	if err := s.configStore.Set(keyServiceTimeout, settings.Service.TimeoutSeconds); err != nil {
		return fmt.Errorf("save service timeout: %w", err)
	}
	if err := s.configStore.Set(keyServiceRPS, settings.Service.RequestsPerSecond); err != nil {
		return fmt.Errorf("save service requests_per_second: %w", err)
	}

	// Save history settings
	if err := s.configStore.Set(keyHistoryKeyPrefix, settings.History.KeyPrefix); err != nil {
		return fmt.Errorf("save history key_prefix: %w", err)
	}
	if err := s.configStore.Set(keyHistoryKeyBy, settings.History.KeyBy.String()); err != nil {
		return fmt.Errorf("save history key_by: %w", err)
	}

	// Save speech settings
	if err := s.configStore.Set(keySpeechMode, settings.Speech.Mode.String()); err != nil {
		return fmt.Errorf("save speech mode: %w", err)
	}
	if err := s.configStore.Set(keySpeechCommand, settings.Speech.Command); err != nil {
		return fmt.Errorf("save speech command: %w", err)
	}
	if err := s.configStore.Set(keySpeechArgs, nonNil(settings.Speech.Args)); err != nil {
		return fmt.Errorf("save speech args: %w", err)
	}
	if err := s.configStore.Set(keySpeechCheckArgs, nonNil(settings.Speech.CheckArgs)); err != nil {
		return fmt.Errorf("save speech check_args: %w", err)
	}
	if err := s.configStore.Set(keySpeechTranscript, settings.Speech.TranscriptFile); err != nil {
		return fmt.Errorf("save speech transcript_file: %w", err)
	}

	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyServiceBaseURL,
		keyServiceTimeout,
		keyServiceRPS,
		keyHistoryKeyPrefix,
		keyHistoryKeyBy,
		keySpeechMode,
		keySpeechCommand,
		keySpeechArgs,
		keySpeechCheckArgs,
		keySpeechTranscript,
	}
}

// Value returns the current value of key in the form Set accepts.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyServiceBaseURL:
		return settings.Service.BaseURL, nil
	case keyServiceTimeout:
		return strconv.Itoa(settings.Service.TimeoutSeconds), nil
	case keyServiceRPS:
		return strconv.FormatFloat(settings.Service.RequestsPerSecond, 'g', -1, 64), nil
	case keyHistoryKeyPrefix:
		return settings.History.KeyPrefix, nil
	case keyHistoryKeyBy:
		return settings.History.KeyBy.String(), nil
	case keySpeechMode:
		return settings.Speech.Mode.String(), nil
	case keySpeechCommand:
		return settings.Speech.Command, nil
	case keySpeechArgs:
		return strings.Join(settings.Speech.Args, " "), nil
	case keySpeechCheckArgs:
		return strings.Join(settings.Speech.CheckArgs, " "), nil
	case keySpeechTranscript:
		return settings.Speech.TranscriptFile, nil
	default:
		return "", fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidInput, key)
	}
}

// Set parses value for key and saves it. Argument lists are split on
// whitespace.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyServiceBaseURL:
		base := strings.TrimRight(strings.TrimSpace(value), "/")
		if err := validateBaseURL(base); err != nil {
			return err
		}
		settings.Service.BaseURL = base
	case keyServiceTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		settings.Service.TimeoutSeconds = n
	case keyServiceRPS:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		settings.Service.RequestsPerSecond = f
	case keyHistoryKeyPrefix:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		settings.History.KeyPrefix = value
	case keyHistoryKeyBy:
		keyBy := domain.HistoryKeyBy(value)
		if !keyBy.IsValid() {
			return fmt.Errorf("%w: invalid history key mode: %s", domain.ErrInvalidInput, value)
		}
		settings.History.KeyBy = keyBy
	case keySpeechMode:
		mode := domain.SpeechMode(value)
		if !mode.IsValid() {
			return fmt.Errorf("%w: invalid speech mode: %s", domain.ErrInvalidInput, value)
		}
		settings.Speech.Mode = mode
	case keySpeechCommand:
		settings.Speech.Command = strings.TrimSpace(value)
	case keySpeechArgs:
		settings.Speech.Args = strings.Fields(value)
	case keySpeechCheckArgs:
		settings.Speech.CheckArgs = strings.Fields(value)
	case keySpeechTranscript:
		settings.Speech.TranscriptFile = strings.TrimSpace(value)
	default:
		return fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := validateBaseURL(settings.Service.BaseURL); err != nil {
		return err
	}
	if settings.Service.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: service timeout must be positive", domain.ErrInvalidInput)
	}
	if settings.Service.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", domain.ErrInvalidInput)
	}

	if settings.Speech.Mode != domain.SpeechModeNone && !settings.Speech.IsConfigured() {
		return fmt.Errorf(
			"%w: speech mode %q is missing its recogniser settings",
			domain.ErrInvalidInput,
			settings.Speech.Mode.Description(),
		)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func validateBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: service base URL must be an http(s) URL: %q", domain.ErrInvalidInput, base)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getHistoryKeyBy(defaultVal domain.HistoryKeyBy) domain.HistoryKeyBy {
	val := domain.HistoryKeyBy(s.configStore.GetString(keyHistoryKeyBy))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSpeechMode(defaultVal domain.SpeechMode) domain.SpeechMode {
	val := domain.SpeechMode(s.configStore.GetString(keySpeechMode))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}
