package cmd

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	groupCore  = "core"
	groupFiles = "files"
	groupSetup = "setup"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "notepadcc",
	Short: "a plain-text editor with find and replace",
	Long: `notepadcc - a plain-text editor with find and replace
  - find/replace over files or stdin, with case, whole-word and regex options
  - a file hub of stored documents, recent searches and autosave`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Editing:"},
		&cobra.Group{ID: groupFiles, Title: "File hub:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/notepadcc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: $XDG_DATA_HOME/notepadcc/notepadcc.db)")

	rootCmd.AddCommand(versionCmd)
}
