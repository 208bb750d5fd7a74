package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved conversations",
	Long: `List, show and edit the question/answer history saved for each document.
Documents are named by file name, or by backend document ID when
history.key_by is document_id.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents with saved conversations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "Show the saved conversation for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [document] [number]",
	Short: "Delete one entry from a saved conversation",
	Long:  `Deletes the entry with the given number, as printed by 'pdfchat history show'.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear [document]",
	Short: "Delete the saved conversation for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryClear,
}

func init() {
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	summaries, err := historyService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(summaries) == 0 {
		cmd.Println("No saved conversations.")
		return nil
	}

	cmd.Println("Saved conversations:")
	cmd.Println()
	for _, summary := range summaries {
		switch {
		case summary.Corrupt:
			cmd.Printf("  %s (unreadable)\n", summary.Document)
		case summary.Entries == 1:
			cmd.Printf("  %s (1 entry)\n", summary.Document)
		default:
			cmd.Printf("  %s (%d entries)\n", summary.Document, summary.Entries)
		}
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	entries, err := historyService.Entries(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		return outputEntryJSON(cmd, entries)
	}

	cmd.Printf("Conversation: %s\n\n", args[0])
	for i := range entries {
		cmd.Printf("[%d] Q: %s\n", i+1, entries[i].Question)
		cmd.Printf("    A: %s\n", entries[i].Answer)
		for _, source := range entries[i].Sources {
			cmd.Printf("       - %s\n", source)
		}
		cmd.Println()
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	number, err := strconv.Atoi(args[1])
	if err != nil || number < 1 {
		return fmt.Errorf("invalid entry number %q", args[1])
	}

	if err := historyService.DeleteEntry(cmd.Context(), args[0], number-1); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	cmd.Printf("Deleted entry %d from %s\n", number, args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Clear(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Printf("Cleared history for %s\n", args[0])
	return nil
}
