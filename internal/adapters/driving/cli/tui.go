package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui"
)

// tuiNotifier carries controller notices into the running TUI.
var tuiNotifier *tui.Notifier

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pdfchat.

Pick a PDF, ask questions about it and browse the answers and their
sources. Saved conversations are restored when the same file is uploaded
again.

Controls:
  ctrl+o   - Upload a PDF
  Enter    - Ask the question
  ctrl+r   - Start/stop dictation
  Tab      - Switch between question and history
  ↑/k, ↓/j - Select a history entry
  d        - Delete the selected entry
  ctrl+l   - Browse saved conversations
  ctrl+g   - Settings
  ?        - Toggle help
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func newTUINotifier() *tui.Notifier {
	return tui.NewNotifier()
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the TUI needs an interactive terminal; use 'pdfchat ask' instead")
	}

	ports := tui.NewPorts(chatController, historyService, settingsService)
	ports.Notices = tuiNotifier

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
