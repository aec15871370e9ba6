package cmd

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/document"
	"github.com/runger/notepadcc/internal/search"
)

// stdinName labels text read from stdin in output.
const stdinName = "(stdin)"

// readInput loads the file named by args[i], or stdin when it is absent
// or "-".
func readInput(cmd *cobra.Command, args []string, i int) (*document.Document, bool, error) {
	if len(args) <= i || args[i] == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), document.MaxFileSize+1))
		if err != nil {
			return nil, false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > document.MaxFileSize {
			return nil, false, fmt.Errorf("stdin is too large (max %d bytes)", document.MaxFileSize)
		}
		if !utf8.Valid(data) {
			return nil, false, fmt.Errorf("stdin is not valid UTF-8 text")
		}
		return document.New(stdinName, string(data)), false, nil
	}

	doc, err := document.ReadFile(args[i])
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// writeInPlace overwrites path with content, keeping its permissions.
func writeInPlace(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// searchFlags are the find/replace toggles shared by find and replace.
// Flags left unset fall back to the search defaults in the config.
type searchFlags struct {
	matchCase bool
	wholeWord bool
	regex     bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.matchCase, "case", "c", false, "match case")
	cmd.Flags().BoolVarP(&f.wholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVarP(&f.regex, "regex", "r", false, "treat the term as a regular expression")
}

func (f *searchFlags) options(cmd *cobra.Command, cfg *config.Config) search.Options {
	opts := cfg.SearchOptions()
	if cmd.Flags().Changed("case") {
		opts.MatchCase = f.matchCase
	}
	if cmd.Flags().Changed("word") {
		opts.WholeWord = f.wholeWord
	}
	if cmd.Flags().Changed("regex") {
		opts.UseRegex = f.regex
	}
	return opts
}
