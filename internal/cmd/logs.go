package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/logging"
)

var (
	logsFollow bool
	logsLines  int
	logsLevel  string
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Short:   "View the editor log",
	GroupID: groupSetup,
	Long: `View the notepadcc log file.

By default, shows the last 50 entries of the log file.
Use --follow to keep printing new entries as they are written.

Examples:
  notepadcc logs                # Show last 50 entries
  notepadcc logs -f             # Follow log output
  notepadcc logs --level warn   # Only warnings and errors`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of entries to show")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "minimum level to show: debug, info, warn or error")

	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logFile := cfg.Advanced.LogFile
	if logFile == "" {
		logFile = config.DefaultPaths().LogFile()
	}

	keep := func(string) bool { return true }
	if logsLevel != "" {
		min := logging.ParseLevel(logsLevel)
		keep = func(line string) bool { return lineLevel(line) >= min }
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		fmt.Printf("No log file found at: %s\n", logFile)
		fmt.Println("Nothing has been logged yet.")
		return nil
	}

	if err := tailLogs(logFile, logsLines, keep); err != nil {
		return err
	}
	if logsFollow {
		return followLogs(cmd.Context(), logFile, keep)
	}
	return nil
}

// lineLevel returns the level of a JSON log line. Lines that cannot be
// parsed count as errors so they are never hidden.
func lineLevel(line string) slog.Level {
	var entry struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return slog.LevelError
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(entry.Level)); err != nil {
		return slog.LevelError
	}
	return level
}

// tailLogs prints the last n kept lines of filename.
func tailLogs(filename string, n int, keep func(string) bool) error {
	if n <= 0 {
		return nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	ring := logging.NewRing[string](n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !keep(line) {
			continue
		}
		ring.Push(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	if ring.Len() == 0 {
		fmt.Println("Log file is empty.")
		return nil
	}
	for _, line := range ring.Items() {
		fmt.Println(line)
	}
	return nil
}

// followLogs prints kept lines appended to filename until ctx is done.
func followLogs(ctx context.Context, filename string, keep func(string) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	fmt.Printf("Following %s (Ctrl+C to stop)...\n", filename)
	fmt.Println()

	reader := bufio.NewReader(f)
	var partial string
	drain := func() error {
		for {
			chunk, err := reader.ReadString('\n')
			partial += chunk
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("error reading log: %w", err)
			}
			line := partial[:len(partial)-1]
			partial = ""
			if line != "" && keep(line) {
				fmt.Println(line)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if err := drain(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watch failed: %w", err)
		}
	}
}
