package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:     "history [prefix]",
	Short:   "Show recent search terms",
	GroupID: groupCore,
	Long: `Show the search terms remembered by the find bar, newest first.

The number of terms kept is set by search.history_size. With a prefix,
only terms extending it (ignoring case) are shown.

Examples:
  notepadcc history           # List recent searches
  notepadcc history err       # Recent searches starting with "err"
  notepadcc history clear     # Forget them`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent search terms",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	svc := newHistoryService(e.store, e.cfg, e.logger)
	terms, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		terms = append([]string{}, svc.Suggestions(ctx, args[0], len(terms))...)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(terms)
	}

	if len(terms) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for i, term := range terms {
		fmt.Printf("%s%2d%s  %s\n", colorDim, i+1, colorReset, term)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := newHistoryService(e.store, e.cfg, e.logger).Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Search history cleared.")
	return nil
}
