package main

import (
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/qaservice/httpapi"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/speech/command"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/speech/transcript"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/services"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// bootstrap wires driven adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("Settings: %v", err)
	}

	history, closeHistory, err := openHistory(opts)
	if err != nil {
		return nil, err
	}

	baseURL := settings.Service.BaseURL
	if opts.ServiceURL != "" {
		baseURL = opts.ServiceURL
	}
	logger.Debug("Service %s (timeout %s)", baseURL, settings.Service.Timeout())
	client := httpapi.NewClient(httpapi.Config{
		BaseURL:           baseURL,
		Timeout:           settings.Service.Timeout(),
		RequestsPerSecond: settings.Service.RequestsPerSecond,
	})

	chat, err := services.NewChatController(services.ChatControllerConfig{
		Remote:          client,
		History:         history,
		Speech:          services.NewSpeechInput(newRecognizer(settings.Speech)),
		Notifier:        opts.Notifier,
		HistorySettings: settings.History,
	})
	if err != nil {
		closeHistory() //nolint:errcheck // already failing
		return nil, err
	}

	return &cli.Services{
		Chat:     chat,
		History:  services.NewHistoryService(history, settings.History.KeyPrefix),
		Settings: settingsService,
		Close:    closeHistory,
	}, nil
}

// openHistory opens the durable history store, or an in-memory one for
// ephemeral runs.
func openHistory(opts cli.Options) (driven.HistoryStore, func() error, error) {
	if opts.Ephemeral {
		logger.Debug("History kept in memory")
		return memory.NewHistoryStore(), func() error { return nil }, nil
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	logger.Debug("History database %s", store.Path())
	return store, store.Close, nil
}

// newRecognizer returns the recogniser for the configured speech mode, or
// nil when speech input is disabled or incomplete.
func newRecognizer(speech domain.SpeechSettings) driven.SpeechRecognizer {
	if !speech.IsConfigured() {
		return nil
	}
	switch speech.Mode {
	case domain.SpeechModeCommand:
		return command.New(command.Config{
			Command:   speech.Command,
			Args:      speech.Args,
			CheckArgs: speech.CheckArgs,
		})
	case domain.SpeechModeTranscript:
		return transcript.New(speech.TranscriptFile)
	case domain.SpeechModeNone:
		return nil
	default:
		return nil
	}
}
