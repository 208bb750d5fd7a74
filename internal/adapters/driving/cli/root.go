// Package cli provides the cobra command tree for pdfchat.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Options are the persistent flags that shape service wiring.
type Options struct {
	Verbose    bool
	ServiceURL string
	ConfigDir  string
	DataDir    string
	LogFile    string
	Ephemeral  bool

	// Interactive is true when the TUI owns the terminal.
	Interactive bool

	// Notifier receives user-facing notices from the chat controller.
	Notifier driven.Notifier
}

// Services are the driving ports the commands run against.
type Services struct {
	Chat     driving.ChatController
	History  driving.HistoryService
	Settings driving.SettingsService

	// Close releases stores. May be nil.
	Close func() error
}

// Bootstrap builds services from the parsed flags.
type Bootstrap func(opts Options) (*Services, error)

var (
	version = "dev"
	opts    Options

	bootstrap Bootstrap
	closers   []io.Closer

	chatController  driving.ChatController
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Chat with your PDF documents",
	Long: `pdfchat uploads a PDF to a question-answering service and lets you ask
questions about it. Answers and their cited sources are saved per document
so a conversation can be resumed later.

Run without a subcommand to start the interactive terminal UI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	// Assigned here: setup refers to rootCmd, so a literal field would be an
	// initialization cycle.
	rootCmd.PersistentPreRunE = setup

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&opts.ServiceURL, "service-url", "", "override the backend URL for this run")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.pdfchat)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "history database directory (default ~/.pdfchat/data)")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file (default ~/.pdfchat/pdfchat.log in the TUI)")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep history in memory only")
}

// Execute runs the root command and releases resources afterwards.
func Execute() error {
	defer closeAll()
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that wires services once flags are parsed.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices sets the driving ports directly, bypassing bootstrap.
func SetServices(chat driving.ChatController, history driving.HistoryService, settings driving.SettingsService) {
	chatController = chat
	historyService = history
	settingsService = settings
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	run := opts
	if err := run.resolve(); err != nil {
		return err
	}

	switch cmd {
	case rootCmd, tuiCmd:
		run.Interactive = true
		tuiNotifier = newTUINotifier()
		run.Notifier = tuiNotifier
	default:
		run.Notifier = newStderrNotifier(cmd.ErrOrStderr())
	}

	// Log output would corrupt the TUI, so it goes to a file.
	if run.Interactive || opts.LogFile != "" {
		f, err := logger.OpenFile(run.LogFile)
		if err != nil {
			return err
		}
		closers = append(closers, f)
	}

	if bootstrap == nil {
		return nil
	}
	logger.Section("Startup")
	logger.Debug("config=%s data=%s ephemeral=%t", run.ConfigDir, run.DataDir, run.Ephemeral)

	services, err := bootstrap(run)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services.Chat, services.History, services.Settings)
	if services.Close != nil {
		closers = append(closers, closerFunc(services.Close))
	}
	return nil
}

// resolve fills unset directories from the user's home.
func (o *Options) resolve() error {
	if o.ConfigDir != "" && o.DataDir != "" && o.LogFile != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}
	base := filepath.Join(home, ".pdfchat")
	if o.ConfigDir == "" {
		o.ConfigDir = base
	}
	if o.DataDir == "" {
		o.DataDir = filepath.Join(base, "data")
	}
	if o.LogFile == "" {
		o.LogFile = filepath.Join(base, "pdfchat.log")
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeAll() {
	// Last opened first: the log file outlives the stores.
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "closing: %v\n", err)
		}
	}
	closers = nil
}
