package driving

import "github.com/custodia-labs/pdfchat/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key, e.g. "service.base_url".
	Set(key, value string) error

	// Keys returns the settable keys.
	Keys() []string

	// Value returns the current value of a setting formatted as Set accepts it.
	Value(key string) (string, error)

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
