package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/document"
	"github.com/runger/notepadcc/internal/findbar"
	"github.com/runger/notepadcc/internal/hub"
	"github.com/runger/notepadcc/internal/logging"
	"github.com/runger/notepadcc/internal/session"
	"github.com/runger/notepadcc/internal/storage"
)

var (
	editHubIDs  []string
	editFolder  string
	editRestore bool
)

var editCmd = &cobra.Command{
	Use:     "edit [file...]",
	Short:   "Open files in the interactive find/replace view",
	GroupID: groupCore,
	Long: `Open local files and hub documents as tabs in the interactive
find/replace view.

Local files are saved back to their path with ctrl+s; hub documents and
new tabs are saved to the hub. While editing, the active document is
autosaved every files.auto_save_interval_secs when files.enable_backup is
on, and settings changes on disk are applied live.

Keys:
  enter / f3 / ctrl+n   next match        ctrl+p     previous match
  tab                   switch find/replace fields
  alt+c / alt+w / alt+r toggle match case, whole word, regex
  ctrl+r / alt+a        replace current / replace all
  ctrl+z / ctrl+y       undo / redo       ctrl+s     save
  ctrl+t / ctrl+w       new / close tab   alt+←/→    switch tab
  esc                   quit

Examples:
  notepadcc edit notes.txt todo.md
  notepadcc edit --hub 3f2a...           # Open a stored document
  notepadcc edit --restore               # Recover the last autosave`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringSliceVar(&editHubIDs, "hub", nil, "hub file id to open (repeatable)")
	editCmd.Flags().StringVar(&editFolder, "folder", storage.RootFolderID, "hub folder id new documents are saved to")
	editCmd.Flags().BoolVar(&editRestore, "restore", false, "open the last autosaved document")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	logging.LogStartup(e.logger, logging.StartupInfo{
		Version:      Version,
		GitCommit:    GitCommit,
		ConfigPath:   configStore().Path,
		DatabasePath: databaseFile(),
		PID:          os.Getpid(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lock := acquireSession(e.logger)
	defer lock.Release()

	svc := hub.NewService(e.store, e.logger)
	ws, paths, err := openWorkspace(ctx, e, svc, args)
	if err != nil {
		return err
	}

	opts := findbar.Options{
		History:       newHistoryService(e.store, e.cfg, e.logger),
		Save:          saveFunc(svc, paths),
		SearchOptions: e.cfg.SearchOptions(),
		Logger:        e.logger,
		Plain:         e.cfg.Advanced.ScreenReaderOptimization,
	}
	if lock != nil && e.cfg.Files.EnableBackup && e.cfg.Files.AutoSaveIntervalSecs > 0 {
		opts.Autosave = autosaveFunc(e.store)
		opts.AutosaveEvery = time.Duration(e.cfg.Files.AutoSaveIntervalSecs) * time.Second
	}

	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())

	p := tea.NewProgram(findbar.NewModel(ws, opts), tea.WithAltScreen())
	go watchConfig(ctx, p, e.logger)

	final, err := p.Run()
	if err != nil {
		logging.LogShutdown(e.logger, "error")
		return fmt.Errorf("TUI error: %w", err)
	}
	logging.LogShutdown(e.logger, "quit")

	m, ok := final.(findbar.Model)
	if !ok {
		return errors.New("unexpected model type")
	}
	reportUnsaved(ctx, e, m.Workspace(), lock != nil)
	return nil
}

// acquireSession claims the autosave slot. It returns nil when another
// editor already owns it, in which case this one runs without autosave.
func acquireSession(logger *slog.Logger) *session.Lock {
	lock, err := session.Acquire(session.LockPath(config.DefaultPaths().DataDir))
	if err == nil {
		return lock
	}
	var held *session.HeldError
	if errors.As(err, &held) {
		fmt.Fprintf(os.Stderr, "%sWarning:%s another editor (PID %d) owns the autosave slot; autosave is off\n",
			colorYellow, colorReset, held.PID)
	}
	logger.Warn("autosave disabled", "error", err)
	return nil
}

// openWorkspace opens args, the --hub documents and the autosave as tabs.
// It returns the workspace and the local path of each document read from
// disk, keyed by document id.
func openWorkspace(ctx context.Context, e *env, svc *hub.Service, args []string) (*document.Workspace, map[string]string, error) {
	ws := document.NewWorkspace()
	ws.SetUndoLimit(e.cfg.Files.UndoLimit)
	paths := make(map[string]string)

	for _, path := range args {
		doc, err := document.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, err
		}
		opened := ws.Open(doc.FileName, doc.Content)
		paths[opened.ID] = abs
	}

	for _, id := range editHubIDs {
		doc, err := svc.Open(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open hub file %s: %w", id, err)
		}
		opened := ws.Open(doc.FileName, doc.Content)
		opened.HubID = doc.HubID
	}

	if editRestore {
		a, err := e.store.LoadAutosave(ctx)
		switch {
		case errors.Is(err, storage.ErrNoAutosave):
			fmt.Fprintf(os.Stderr, "%sWarning:%s no autosave to restore\n", colorYellow, colorReset)
		case err != nil:
			return nil, nil, err
		default:
			opened := ws.Open(a.FileName, a.Content)
			opened.Modified = true
		}
	}

	if ws.Len() > 1 {
		_ = ws.Activate(0)
	}
	return ws, paths, nil
}

// saveFunc writes documents read from disk back to their path and stores
// every other document in the hub.
func saveFunc(svc *hub.Service, paths map[string]string) findbar.SaveFunc {
	return func(ctx context.Context, doc *document.Document) error {
		if path, ok := paths[doc.ID]; ok {
			doc.FileName = filepath.Base(path)
			_, err := document.WriteFile(doc, filepath.Dir(path))
			return err
		}
		_, err := svc.Save(ctx, doc, editFolder)
		return err
	}
}

func autosaveFunc(store storage.Store) findbar.SaveFunc {
	return func(ctx context.Context, doc *document.Document) error {
		return store.SaveAutosave(ctx, &storage.Autosave{
			FileName:      doc.FileName,
			Content:       doc.Content,
			SavedAtUnixMs: time.Now().UnixMilli(),
		})
	}
}

// watchConfig forwards settings changes on disk to the program until ctx
// is done.
func watchConfig(ctx context.Context, p *tea.Program, logger *slog.Logger) {
	path := configStore().Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("config watch disabled", "error", err)
		return
	}

	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		if err != nil {
			logging.LogConfigReloadFailed(logger, path, err)
		} else {
			logging.LogConfigReload(logger, path)
		}
		p.Send(findbar.ConfigReloadedMsg{Config: cfg, Err: err})
	})
	if err != nil {
		logger.Warn("config watch disabled", "error", err)
	}
}

// reportUnsaved warns about documents closed with unsaved changes. When
// there are none and this editor owns the autosave slot, the slot is
// cleared.
func reportUnsaved(ctx context.Context, e *env, ws *document.Workspace, ownsAutosave bool) {
	modified := ws.ModifiedDocuments()
	if len(modified) == 0 {
		if !ownsAutosave {
			return
		}
		if err := e.store.ClearAutosave(ctx); err != nil {
			e.logger.Warn("failed to clear autosave", "error", err)
		}
		return
	}

	names := make([]string, 0, len(modified))
	for _, d := range modified {
		names = append(names, d.FileName)
	}
	fmt.Fprintf(os.Stderr, "%sWarning:%s unsaved changes in %s\n", colorYellow, colorReset, strings.Join(names, ", "))
	if e.cfg.Files.EnableBackup {
		fmt.Fprintln(os.Stderr, "Run \"notepadcc edit --restore\" to recover the last autosave.")
	}
}
