package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/search"
)

var (
	replaceFlags   searchFlags
	replaceAll     bool
	replaceNth     int
	replaceInPlace bool
)

var replaceCmd = &cobra.Command{
	Use:     "replace <term> <replacement> [file]",
	Short:   "Replace matches of a term",
	GroupID: groupCore,
	Long: `Replace one or all matches of a term in a file, or stdin when no file
is given. The result is written to stdout unless --in-place is set.

Without --all only one match is replaced: the first, or the one selected
with --nth. A --nth past the last match replaces the first match.
The replacement is inserted literally; regex group references such as $1
are not expanded.

Examples:
  notepadcc replace teh the notes.txt             # Fix the first "teh"
  notepadcc replace --all -w teh the notes.txt    # Fix every whole word "teh"
  notepadcc replace --nth 3 foo bar notes.txt     # Replace the third match
  notepadcc replace -i --all -r '\s+$' '' notes.txt`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runReplace,
}

func init() {
	replaceFlags.register(replaceCmd)
	replaceCmd.Flags().BoolVarP(&replaceAll, "all", "a", false, "replace every match")
	replaceCmd.Flags().IntVarP(&replaceNth, "nth", "n", 1, "1-based match to replace when --all is not set")
	replaceCmd.Flags().BoolVarP(&replaceInPlace, "in-place", "i", false, "write the result back to the file")

	rootCmd.AddCommand(replaceCmd)
}

func runReplace(cmd *cobra.Command, args []string) error {
	if replaceNth < 1 {
		return fmt.Errorf("%w: --nth must be at least 1", errInvalidArgs)
	}
	if replaceInPlace && len(args) < 3 {
		return fmt.Errorf("%w: --in-place needs a file", errInvalidArgs)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, fromFile, err := readInput(cmd, args, 2)
	if err != nil {
		return err
	}

	term, replacement := args[0], args[1]
	opts := replaceFlags.options(cmd, cfg)
	if _, err := search.Scan(doc.Content, term, opts); err != nil {
		return scanError(term, err)
	}

	scope := search.ScopeOne(search.Cursor(replaceNth))
	if replaceAll {
		scope = search.ScopeAll()
	}
	n := doc.Replace(term, replacement, scope, opts)

	if replaceInPlace && fromFile {
		if n > 0 {
			if err := writeInPlace(args[2], doc.Content); err != nil {
				return err
			}
		}
	} else {
		fmt.Print(doc.Content)
	}

	fmt.Fprintln(os.Stderr, replacedMessage(n))
	return nil
}

func replacedMessage(n int) string {
	switch n {
	case 0:
		return "No matches replaced"
	case 1:
		return "Replaced 1 occurrence"
	default:
		return fmt.Sprintf("Replaced %d occurrences", n)
	}
}
