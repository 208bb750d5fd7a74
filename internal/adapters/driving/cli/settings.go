package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend service, history storage and speech input.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its dotted key, for example:

  pdfchat settings set service.base_url https://example.com
  pdfchat settings set speech.mode command
  pdfchat settings set speech.args "--model small --stream"

List values such as speech.args are split on spaces.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Service]")
	cmd.Printf("  Base URL: %s\n", settings.Service.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Service.Timeout())
	if settings.Service.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g requests/s\n", settings.Service.RequestsPerSecond)
	} else {
		cmd.Printf("  Rate limit: none\n")
	}
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Key prefix: %s\n", settings.History.KeyPrefix)
	cmd.Printf("  Keyed by: %s\n", settings.History.KeyBy.Description())
	cmd.Println()

	cmd.Println("[Speech]")
	cmd.Printf("  Mode: %s\n", settings.Speech.Mode.Description())
	switch settings.Speech.Mode {
	case domain.SpeechModeCommand:
		cmd.Printf("  Command: %s\n", valueOrUnset(settings.Speech.Command))
		if len(settings.Speech.Args) > 0 {
			cmd.Printf("  Args: %s\n", strings.Join(settings.Speech.Args, " "))
		}
		if len(settings.Speech.CheckArgs) > 0 {
			cmd.Printf("  Check args: %s\n", strings.Join(settings.Speech.CheckArgs, " "))
		}
	case domain.SpeechModeTranscript:
		cmd.Printf("  Transcript file: %s\n", valueOrUnset(settings.Speech.TranscriptFile))
	case domain.SpeechModeNone:
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfchat settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", args[0], err)
	}
	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("pdfchat Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Service
	cmd.Println("Step 1: Question-answering service")
	cmd.Println("----------------------------------")
	cmd.Printf("Enter base URL [%s]: ", settings.Service.BaseURL)
	if input := readLine(reader); input != "" {
		settings.Service.BaseURL = strings.TrimRight(input, "/")
	}
	cmd.Println()

	// Step 2: History key
	cmd.Println("Step 2: Save history by")
	cmd.Println("-----------------------")
	keyModes := domain.AllHistoryKeyModes()
	for i, mode := range keyModes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.History.KeyBy = keyModes[parseChoice(readLine(reader), len(keyModes), 1)-1]
	cmd.Println()

	// Step 3: Speech
	cmd.Println("Step 3: Speech input")
	cmd.Println("--------------------")
	if err := configureSpeech(cmd, reader, &settings.Speech); err != nil {
		return err
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func configureSpeech(cmd *cobra.Command, reader *bufio.Reader, speech *domain.SpeechSettings) error {
	modes := domain.AllSpeechModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	speech.Mode = modes[parseChoice(readLine(reader), len(modes), 1)-1]

	switch speech.Mode {
	case domain.SpeechModeCommand:
		cmd.Printf("Enter recogniser command [%s]: ", speech.Command)
		if input := readLine(reader); input != "" {
			speech.Command = input
		}
		if speech.Command == "" {
			return errors.New("a recogniser command is required for this mode")
		}
		cmd.Printf("Enter arguments [%s]: ", strings.Join(speech.Args, " "))
		if input := readLine(reader); input != "" {
			speech.Args = strings.Fields(input)
		}
	case domain.SpeechModeTranscript:
		cmd.Printf("Enter transcript file [%s]: ", speech.TranscriptFile)
		if input := readLine(reader); input != "" {
			speech.TranscriptFile = input
		}
		if speech.TranscriptFile == "" {
			return errors.New("a transcript file is required for this mode")
		}
	case domain.SpeechModeNone:
	}

	cmd.Printf("Speech input: %s\n\n", speech.Mode.Description())
	return nil
}

// Helper functions.

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func valueOrUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
