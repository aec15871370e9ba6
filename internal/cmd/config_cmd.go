package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set notepadcc configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/notepadcc/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: display, behavior, files, search, advanced

Examples:
  notepadcc config                           # List all keys
  notepadcc config display.zoom              # Get the zoom level
  notepadcc config search.match_case true    # Match case by default
  notepadcc config export settings.json      # Export settings
  notepadcc config import settings.toml      # Import settings`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

var configExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export settings as JSON, YAML or TOML",
	Long: `Export settings to a file. The format follows the extension:
.json, .yaml/.yml or .toml.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigExport,
}

var configImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import settings from a JSON, YAML or TOML file",
	Long: `Import settings from a file and save them as the current config.
Keys missing from the file keep their default values. Nothing is saved
when the file is malformed or holds an invalid value.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

func init() {
	configCmd.AddCommand(configExportCmd, configImportCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	store := configStore()
	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch len(args) {
	case 0:
		return listConfig(cfg, store.Path)
	case 1:
		return getConfig(cfg, args[0])
	case 2:
		return setConfig(cfg, store, args[0], args[1])
	}

	return nil
}

func listConfig(cfg *config.Config, path string) error {
	fmt.Printf("%sConfiguration Keys%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := value
		if displayValue == "" {
			displayValue = colorDim + "(not set)" + colorReset
		}

		fmt.Printf("  %s%s%s = %s\n", colorCyan, key, colorReset, displayValue)
	}

	if len(failedKeys) > 0 {
		fmt.Printf("\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failedKeys, ", "))
	}

	fmt.Println()
	fmt.Printf("Config file: %s\n", path)

	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s(not set)%s\n", colorDim, colorReset)
	} else {
		fmt.Println(value)
	}

	return nil
}

func setConfig(cfg *config.Config, store *config.FileStore, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Set may have clamped the value, e.g. display.zoom.
	saved, _ := cfg.Get(key)
	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, saved)
	fmt.Printf("Saved to: %s\n", store.Path)

	return nil
}

func runConfigExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Export(cfg, args[0]); err != nil {
		return err
	}
	fmt.Printf("%sExported%s settings to %s\n", colorGreen, colorReset, args[0])
	return nil
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Import(args[0])
	if err != nil {
		return err
	}

	store := configStore()
	if err := store.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("%sImported%s settings from %s\n", colorGreen, colorReset, args[0])
	fmt.Printf("Saved to: %s\n", store.Path)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	store := configStore()
	if err := store.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Restored default settings in %s\n", store.Path)
	return nil
}
