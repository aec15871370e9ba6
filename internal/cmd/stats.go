package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/document"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:     "stats [file]",
	Short:   "Count words, characters and lines",
	GroupID: groupCore,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	doc, _, err := readInput(cmd, args, 0)
	if err != nil {
		return err
	}
	stats := doc.Stats()

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			File string `json:"file"`
			document.Stats
		}{doc.FileName, stats})
	}

	fmt.Printf("Words: %d  Characters: %d  Lines: %d\n", stats.Words, stats.Characters, stats.Lines)
	return nil
}
