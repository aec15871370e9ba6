package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/rules"
)

var rulesInPlace bool

var rulesCmd = &cobra.Command{
	Use:     "rules <rules-file> [file]",
	Short:   "Apply a file of replace rules",
	GroupID: groupCore,
	Long: `Apply replace-all rules, in order, to a file or stdin.

Each line of the rules file is a term, a replacement and optional flags
(case, word, regex), split like a shell command line. Blank lines and
lines starting with # are ignored. A rule whose pattern times out is
skipped and reported.

Example rules file:
  # normalize spelling
  colour color word
  'teh' 'the' case word
  '\s+$' '' regex`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().BoolVarP(&rulesInPlace, "in-place", "i", false, "write the result back to the file")

	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	if rulesInPlace && len(args) < 2 {
		return fmt.Errorf("%w: --in-place needs a file", errInvalidArgs)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open rules: %w", err)
	}
	defer f.Close()

	parsed, err := rules.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	doc, fromFile, err := readInput(cmd, args, 1)
	if err != nil {
		return err
	}

	out, outcomes := rules.Apply(doc.Content, parsed)
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "%sline %d:%s skipped %q: %v\n", colorYellow, o.Rule.Line, colorReset, o.Rule.Term, o.Err)
		}
	}
	total := rules.Total(outcomes)

	if rulesInPlace && fromFile {
		if total > 0 {
			if err := writeInPlace(args[1], out); err != nil {
				return err
			}
		}
	} else {
		fmt.Print(out)
	}

	fmt.Fprintf(os.Stderr, "%s across %d rules\n", replacedMessage(total), len(parsed))
	return nil
}
