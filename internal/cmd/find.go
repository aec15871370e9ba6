package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/document"
	"github.com/runger/notepadcc/internal/findbar"
	"github.com/runger/notepadcc/internal/search"
)

var (
	findFlags searchFlags
	findJSON  bool
	findCount bool
)

var findCmd = &cobra.Command{
	Use:     "find <term> [file]",
	Short:   "Find matches of a term in a file",
	GroupID: groupCore,
	Long: `Find every match of a term in a file, or stdin when no file is given.

Each match is printed as file:line:column followed by the line it is on.
Options not given on the command line use the search defaults from the
config (search.match_case, search.whole_word, search.use_regex).

Examples:
  notepadcc find TODO notes.txt            # Case-insensitive literal search
  notepadcc find -c -w Error app.log       # Whole word, exact case
  notepadcc find -r 'v\d+\.\d+' CHANGES    # Regular expression
  cat notes.txt | notepadcc find --count todo`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFind,
}

func init() {
	findFlags.register(findCmd)
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output matches as JSON")
	findCmd.Flags().BoolVar(&findCount, "count", false, "print only the number of matches")
	findCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(findCmd)
}

type findMatch struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Text   string `json:"text"`
}

type findResponse struct {
	File    string         `json:"file"`
	Term    string         `json:"term"`
	Options search.Options `json:"options"`
	Matches []findMatch    `json:"matches"`
	Total   int            `json:"total"`
}

func runFind(cmd *cobra.Command, args []string) error {
	applyColorMode()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, _, err := readInput(cmd, args, 1)
	if err != nil {
		return err
	}

	term := args[0]
	opts := findFlags.options(cmd, cfg)
	matches, err := search.Scan(doc.Content, term, opts)
	if err != nil {
		return scanError(term, err)
	}

	if findJSON {
		return writeFindJSON(doc, term, opts, matches)
	}
	if findCount {
		fmt.Println(matches.Len())
		return nil
	}

	if !matches.HasMatch() {
		fmt.Fprintln(os.Stderr, "No matches found")
		return nil
	}

	content := []rune(doc.Content)
	width := termWidth(os.Stdout)
	for _, span := range matches {
		pos := document.PositionAt(doc.Content, span.Start)
		prefix := fmt.Sprintf("%s:%d:%d: ", doc.FileName, pos.Line, pos.Column)
		before, text, after := findbar.Excerpt(content, span)
		before, text, after = findbar.Printable(before), findbar.Printable(text), findbar.Printable(after)
		if width > 0 {
			before, text, after = findbar.FitExcerpt(before, text, after, width-len([]rune(prefix)))
		}
		fmt.Printf("%s%s%s%s%s%s%s%s\n", colorCyan, prefix, colorReset, before, colorRed+colorBold, text, colorReset, after)
	}
	return nil
}

// scanError turns a search.Scan failure into a command error.
func scanError(term string, err error) error {
	switch {
	case errors.Is(err, search.ErrEmptyTerm):
		return fmt.Errorf("search term must not be empty")
	case errors.Is(err, search.ErrInvalidPattern):
		return fmt.Errorf("invalid pattern %q: %w", term, err)
	default:
		return err
	}
}

func writeFindJSON(doc *document.Document, term string, opts search.Options, matches search.MatchSet) error {
	resp := findResponse{
		File:    doc.FileName,
		Term:    term,
		Options: opts,
		Matches: make([]findMatch, 0, matches.Len()),
		Total:   matches.Len(),
	}
	for _, span := range matches {
		pos := document.PositionAt(doc.Content, span.Start)
		resp.Matches = append(resp.Matches, findMatch{
			Line:   pos.Line,
			Column: pos.Column,
			Start:  span.Start,
			End:    span.End,
			Text:   span.Text,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
