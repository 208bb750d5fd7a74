package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [file] [question]",
	Short: "Ask a question about a PDF",
	Long: `Uploads a PDF to the question-answering service and asks one question
about it. The answer is printed with its cited sources and appended to the
saved conversation for that document.

Words after the file name are joined into the question, so quoting is optional.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatController == nil {
		return errors.New("chat controller not configured")
	}

	path := args[0]
	question := strings.Join(args[1:], " ")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	file := domain.NewUploadFile(path, data)

	entry, err := services.Ask(cmd.Context(), chatController, file, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputEntryJSON(cmd, entry)
	}
	outputEntry(cmd, entry)
	return nil
}

func outputEntryJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputEntry(cmd *cobra.Command, entry *domain.Entry) {
	cmd.Println(entry.Answer)
	if len(entry.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, source := range entry.Sources {
		cmd.Printf("  [%d] %s\n", i+1, source)
	}
}
