// Package expect drives the notepadcc binary in a pseudo terminal using
// go-expect, for end-to-end tests of the interactive editor.
package expect

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
)

// Key sequences understood by the editor.
const (
	KeyEscape   = "\x1b"
	KeyEnter    = "\r"
	KeyTab      = "\t"
	KeyCtrlN    = "\x0e"
	KeyCtrlP    = "\x10"
	KeyCtrlR    = "\x12"
	KeyCtrlS    = "\x13"
	KeyCtrlT    = "\x14"
	KeyCtrlY    = "\x19"
	KeyCtrlZ    = "\x1a"
	KeyAltCase  = "\x1bc"
	KeyAltWord  = "\x1bw"
	KeyAltRegex = "\x1br"
	KeyAltAll   = "\x1ba"
)

// Session is one notepadcc process attached to a pseudo terminal.
type Session struct {
	Console *expect.Console
	Timeout time.Duration
	cmd     *exec.Cmd
	done    chan error // Receives the result of cmd.Wait
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	timeout    time.Duration
	env        []string
	home       string
	showOutput bool
}

// WithTimeout sets the default timeout for expect operations.
func WithTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// WithEnv adds environment variables to the process.
func WithEnv(env ...string) SessionOption {
	return func(c *sessionConfig) {
		c.env = append(c.env, env...)
	}
}

// WithHome keeps config, data and logs under dir.
func WithHome(dir string) SessionOption {
	return func(c *sessionConfig) {
		c.home = dir
	}
}

// WithOutput copies the terminal output to stdout for debugging.
func WithOutput(show bool) SessionOption {
	return func(c *sessionConfig) {
		c.showOutput = show
	}
}

// BinaryPath returns $NOTEPADCC_BIN, or notepadcc from PATH, or "".
func BinaryPath() string {
	if bin := os.Getenv("NOTEPADCC_BIN"); bin != "" {
		return bin
	}
	if bin, err := exec.LookPath("notepadcc"); err == nil {
		return bin
	}
	return ""
}

// SkipIfBinaryMissing skips the test when no notepadcc binary is available.
func SkipIfBinaryMissing(t testing.TB) string {
	t.Helper()
	bin := BinaryPath()
	if bin == "" {
		t.Skip("notepadcc binary not available (set NOTEPADCC_BIN), skipping")
	}
	return bin
}

// Env returns the environment that points notepadcc at home.
func Env(home string) []string {
	return append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_DATA_HOME="+filepath.Join(home, "data"),
		"XDG_CACHE_HOME="+filepath.Join(home, "cache"),
		"TERM=xterm-256color",
	)
}

// NewSession starts bin with args attached to a new pseudo terminal.
func NewSession(bin string, args []string, opts ...SessionOption) (*Session, error) {
	cfg := &sessionConfig{
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.home == "" {
		return nil, fmt.Errorf("session needs a home directory")
	}

	consoleOpts := []expect.ConsoleOpt{expect.WithDefaultTimeout(cfg.timeout)}
	if cfg.showOutput {
		consoleOpts = append(consoleOpts, expect.WithStdout(os.Stdout))
	}

	console, err := expect.NewConsole(consoleOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	cmd := exec.Command(bin, args...) //nolint:gosec // G204: bin comes from the test environment
	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	cmd.Env = append(Env(cfg.home), cfg.env...)

	if err := cmd.Start(); err != nil {
		console.Close()
		return nil, fmt.Errorf("failed to start %s: %w", bin, err)
	}

	s := &Session{
		Console: console,
		Timeout: cfg.timeout,
		cmd:     cmd,
		done:    make(chan error, 1),
	}
	go func() { s.done <- cmd.Wait() }()
	return s, nil
}

// Send types text without a newline.
func (s *Session) Send(text string) error {
	_, err := s.Console.Send(text)
	return err
}

// SendKey sends a special key (use Key* constants). Keys are sent one at a
// time with a short pause so escape sequences are not merged.
func (s *Session) SendKey(key string) error {
	_, err := s.Console.Send(key)
	time.Sleep(50 * time.Millisecond)
	return err
}

// Expect waits for an exact string in the output.
func (s *Session) Expect(str string) (string, error) {
	return s.Console.ExpectString(str)
}

// ExpectTimeout waits for an exact string with a specific timeout.
func (s *Session) ExpectTimeout(str string, timeout time.Duration) (string, error) {
	return s.Console.Expect(expect.String(str), expect.WithTimeout(timeout))
}

// ExpectRegex waits for a regex match in the output.
func (s *Session) ExpectRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex: %w", err)
	}
	return s.Console.Expect(expect.Regexp(re))
}

// Wait waits for the process to exit.
func (s *Session) Wait() error {
	select {
	case err := <-s.done:
		s.done <- err
		return err
	case <-time.After(s.Timeout):
		return fmt.Errorf("process did not exit within %s", s.Timeout)
	}
}

// Close kills the process if it is still running and closes the terminal.
func (s *Session) Close() error {
	select {
	case err := <-s.done:
		s.done <- err
	default:
		_ = s.cmd.Process.Kill()
		<-s.done
	}
	return s.Console.Close()
}

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t testing.TB, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping in short mode: " + reason)
	}
}
