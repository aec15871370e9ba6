package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/logging"
	"github.com/runger/notepadcc/internal/session"
	"github.com/runger/notepadcc/internal/storage"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check the notepadcc setup",
	GroupID: groupSetup,
	Long: `Run diagnostic checks on your notepadcc setup.

This command checks:
- Data directory
- Configuration validity
- Database and file hub
- Pending autosave
- Running editor session
- Log file
- Terminal colors

Examples:
  notepadcc doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("%snotepadcc Doctor%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	results := make([]checkResult, 0, 8)
	results = append(results, checkDataDir())

	cfg, cfgResult := checkConfiguration()
	results = append(results, cfgResult)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	results = append(results, checkDatabase(cmd.Context())...)
	results = append(results, checkEditorSession())
	results = append(results, checkLogFile(cfg))
	results = append(results, checkTerminal())

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		var statusIcon string
		switch r.status {
		case "ok":
			statusIcon = colorGreen + "[OK]" + colorReset
		case "warn":
			statusIcon = colorYellow + "[WARN]" + colorReset
			hasWarnings = true
		case "error":
			statusIcon = colorRed + "[ERROR]" + colorReset
			hasErrors = true
		}

		fmt.Printf("  %s %s\n", statusIcon, r.name)
		if r.message != "" {
			fmt.Printf("       %s%s%s\n", colorDim, r.message, colorReset)
		}
	}

	fmt.Println()

	if hasErrors {
		fmt.Printf("%sSome checks failed. Please fix the errors above.%s\n", colorRed, colorReset)
		return fmt.Errorf("doctor found errors")
	}

	if hasWarnings {
		fmt.Printf("%sAll critical checks passed, but there are warnings.%s\n", colorYellow, colorReset)
	} else {
		fmt.Printf("%sAll checks passed!%s\n", colorGreen, colorReset)
	}

	return nil
}

func checkDataDir() checkResult {
	const name = "Data directory"
	dir := config.DefaultPaths().DataDir

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return checkResult{name, "warn", fmt.Sprintf("Missing: %s (will be created when needed)", dir)}
	case err != nil:
		return checkResult{name, "error", fmt.Sprintf("Error accessing %s: %v", dir, err)}
	case !info.IsDir():
		return checkResult{name, "error", fmt.Sprintf("Not a directory: %s", dir)}
	}
	return checkResult{name, "ok", dir}
}

func checkConfiguration() (*config.Config, checkResult) {
	const name = "Configuration"
	store := configStore()

	cfg, err := store.Load()
	if err != nil {
		return nil, checkResult{name, "error", fmt.Sprintf("Failed to load: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, checkResult{name, "error", fmt.Sprintf("Invalid: %v", err)}
	}
	if _, err := os.Stat(store.Path); os.IsNotExist(err) {
		return cfg, checkResult{name, "ok", "Using defaults (no config file)"}
	}
	return cfg, checkResult{name, "ok", store.Path}
}

func checkDatabase(ctx context.Context) []checkResult {
	if ctx == nil {
		ctx = context.Background()
	}
	path := databaseFile()

	store, err := storage.NewSQLiteStoreWithLogger(path, logging.Discard())
	if err != nil {
		return []checkResult{{"Database", "error", err.Error()}}
	}
	defer store.Close()

	results := make([]checkResult, 0, 2)
	folders, ferr := store.ListFolders(ctx)
	files, cerr := store.CountFiles(ctx)
	if err := errors.Join(ferr, cerr); err != nil {
		results = append(results, checkResult{"Database", "error", err.Error()})
	} else {
		results = append(results, checkResult{"Database", "ok",
			fmt.Sprintf("%s (%d folders, %d files)", path, len(folders), files)})
	}

	a, err := store.LoadAutosave(ctx)
	switch {
	case errors.Is(err, storage.ErrNoAutosave):
		results = append(results, checkResult{"Autosave", "ok", "Nothing to recover"})
	case err != nil:
		results = append(results, checkResult{"Autosave", "error", err.Error()})
	default:
		saved := time.UnixMilli(a.SavedAtUnixMs).Format("2006-01-02 15:04")
		results = append(results, checkResult{"Autosave", "warn",
			fmt.Sprintf("%s from %s can be recovered with 'notepadcc edit --restore'", a.FileName, saved)})
	}
	return results
}

func checkEditorSession() checkResult {
	const name = "Editor session"
	pid, held, err := session.Holder(session.LockPath(config.DefaultPaths().DataDir))
	switch {
	case err != nil:
		return checkResult{name, "warn", err.Error()}
	case held:
		return checkResult{name, "ok", fmt.Sprintf("Editor running (PID %d)", pid)}
	}
	return checkResult{name, "ok", "No editor running"}
}

func checkLogFile(cfg *config.Config) checkResult {
	const name = "Log file"
	f, err := openLogFile(cfg)
	if err != nil {
		return checkResult{name, "warn", fmt.Sprintf("Not writable, logs are discarded: %v", err)}
	}
	path := f.Name()
	_ = f.Close()
	return checkResult{name, "ok", path}
}

func checkTerminal() checkResult {
	const name = "Terminal colors"
	if shouldDisableColors() {
		return checkResult{name, "ok", "Disabled by NO_COLOR or TERM"}
	}

	switch termenv.NewOutput(os.Stdout).ColorProfile() {
	case termenv.TrueColor:
		return checkResult{name, "ok", "True color"}
	case termenv.ANSI256:
		return checkResult{name, "ok", "256 colors"}
	case termenv.ANSI:
		return checkResult{name, "ok", "16 colors"}
	default:
		return checkResult{name, "ok", "No colors (not a terminal)"}
	}
}
