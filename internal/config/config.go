package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runger/notepadcc/internal/search"
)

// Config represents the notepadcc settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display" json:"display" toml:"display"`
	Behavior BehaviorConfig `yaml:"behavior" json:"behavior" toml:"behavior"`
	Files    FilesConfig    `yaml:"files" json:"files" toml:"files"`
	Search   SearchConfig   `yaml:"search" json:"search" toml:"search"`
	Advanced AdvancedConfig `yaml:"advanced" json:"advanced" toml:"advanced"`
}

// DisplayConfig holds how documents are shown.
type DisplayConfig struct {
	FontFamily           string  `yaml:"font_family" json:"fontFamily" toml:"font_family"`                                 // Font name passed to front ends that can use it
	FontSize             int     `yaml:"font_size" json:"fontSize" toml:"font_size"`                                       // Points, 8-72
	LineHeight           float64 `yaml:"line_height" json:"lineHeight" toml:"line_height"`                                 // Multiplier, 1.0-3.0
	ColorTheme           string  `yaml:"color_theme" json:"colorTheme" toml:"color_theme"`                                 // light, dark, high-contrast, sepia
	Zoom                 int     `yaml:"zoom" json:"zoom" toml:"zoom"`                                                     // Percent, 50-200 in steps of 10
	ShowLineNumbers      bool    `yaml:"show_line_numbers" json:"showLineNumbers" toml:"show_line_numbers"`                // Gutter with line numbers
	HighlightCurrentLine bool    `yaml:"highlight_current_line" json:"highlightCurrentLine" toml:"highlight_current_line"` // Highlight the cursor line
	ShowWhitespace       bool    `yaml:"show_whitespace" json:"showWhitespace" toml:"show_whitespace"`                     // Render spaces and tabs
}

// BehaviorConfig holds text editing behavior.
type BehaviorConfig struct {
	WordWrap           bool   `yaml:"word_wrap" json:"wordWrap" toml:"word_wrap"`                                 // Soft-wrap long lines
	TabSize            int    `yaml:"tab_size" json:"tabSize" toml:"tab_size"`                                    // Columns per tab, 1-8
	InsertSpaces       bool   `yaml:"insert_spaces" json:"insertSpaces" toml:"insert_spaces"`                     // Tab key inserts spaces
	AutoIndent         bool   `yaml:"auto_indent" json:"autoIndent" toml:"auto_indent"`                           // Keep indentation on newline
	SpellCheck         bool   `yaml:"spell_check" json:"spellCheck" toml:"spell_check"`                           // Enable spell checking
	SpellCheckLanguage string `yaml:"spell_check_language" json:"spellCheckLanguage" toml:"spell_check_language"` // BCP 47 tag, e.g. en-US
}

// FilesConfig holds save and autosave preferences.
type FilesConfig struct {
	DefaultSaveFormat    string `yaml:"default_save_format" json:"defaultSaveFormat" toml:"default_save_format"`        // txt, rtf, md, json, csv, xml
	AutoSaveIntervalSecs int    `yaml:"auto_save_interval_secs" json:"autoSaveInterval" toml:"auto_save_interval_secs"` // 0 disables autosave
	EnableBackup         bool   `yaml:"enable_backup" json:"enableBackup" toml:"enable_backup"`                         // Keep an autosave snapshot
	UndoLimit            int    `yaml:"undo_limit" json:"undoLimit" toml:"undo_limit"`                                  // Undo snapshots per document
}

// SearchConfig holds find/replace defaults.
type SearchConfig struct {
	MatchCase   bool `yaml:"match_case" json:"matchCase" toml:"match_case"`       // Default for the match case toggle
	WholeWord   bool `yaml:"whole_word" json:"wholeWord" toml:"whole_word"`       // Default for the whole word toggle
	UseRegex    bool `yaml:"use_regex" json:"useRegex" toml:"use_regex"`          // Default for the regex toggle
	HistorySize int  `yaml:"history_size" json:"historySize" toml:"history_size"` // Remembered search terms
}

// AdvancedConfig holds the remaining settings.
type AdvancedConfig struct {
	KeyboardShortcuts        string `yaml:"keyboard_shortcuts" json:"keyboardShortcuts" toml:"keyboard_shortcuts"`                        // default, vscode, sublime, vim, emacs
	ScreenReaderOptimization bool   `yaml:"screen_reader_optimization" json:"screenReaderOptimization" toml:"screen_reader_optimization"` // Plain output without decoration
	LogLevel                 string `yaml:"log_level" json:"logLevel" toml:"log_level"`                                                   // debug, info, warn, error
	LogFile                  string `yaml:"log_file" json:"logFile" toml:"log_file"`                                                      // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			FontFamily:           "Inter",
			FontSize:             14,
			LineHeight:           1.5,
			ColorTheme:           "light",
			Zoom:                 100,
			ShowLineNumbers:      true,
			HighlightCurrentLine: true,
			ShowWhitespace:       false,
		},
		Behavior: BehaviorConfig{
			WordWrap:           true,
			TabSize:            4,
			InsertSpaces:       true,
			AutoIndent:         true,
			SpellCheck:         true,
			SpellCheckLanguage: "en-US",
		},
		Files: FilesConfig{
			DefaultSaveFormat:    "txt",
			AutoSaveIntervalSecs: 30,
			EnableBackup:         true,
			UndoLimit:            50,
		},
		Search: SearchConfig{
			HistorySize: 10,
		},
		Advanced: AdvancedConfig{
			KeyboardShortcuts: "default",
			LogLevel:          "info",
			LogFile:           "", // Use default from paths
		},
	}
}

// SearchOptions returns the configured default find/replace options.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		MatchCase: c.Search.MatchCase,
		WholeWord: c.Search.WholeWord,
		UseRegex:  c.Search.UseRegex,
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	// Derive directory from path and ensure it exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "display.font_size" or "search.match_case"
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "display":
		return c.getDisplayField(field)
	case "behavior":
		return c.getBehaviorField(field)
	case "files":
		return c.getFilesField(field)
	case "search":
		return c.getSearchField(field)
	case "advanced":
		return c.getAdvancedField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "display":
		return c.setDisplayField(field, value)
	case "behavior":
		return c.setBehaviorField(field, value)
	case "files":
		return c.setFilesField(field, value)
	case "search":
		return c.setSearchField(field, value)
	case "advanced":
		return c.setAdvancedField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getDisplayField(field string) (string, error) {
	switch field {
	case "font_family":
		return c.Display.FontFamily, nil
	case "font_size":
		return strconv.Itoa(c.Display.FontSize), nil
	case "line_height":
		return strconv.FormatFloat(c.Display.LineHeight, 'g', -1, 64), nil
	case "color_theme":
		return c.Display.ColorTheme, nil
	case "zoom":
		return strconv.Itoa(c.Display.Zoom), nil
	case "show_line_numbers":
		return strconv.FormatBool(c.Display.ShowLineNumbers), nil
	case "highlight_current_line":
		return strconv.FormatBool(c.Display.HighlightCurrentLine), nil
	case "show_whitespace":
		return strconv.FormatBool(c.Display.ShowWhitespace), nil
	default:
		return "", fmt.Errorf("unknown field: display.%s", field)
	}
}

func (c *Config) setDisplayField(field, value string) error {
	switch field {
	case "font_family":
		if strings.TrimSpace(value) == "" {
			return errors.New("invalid font_family: must not be empty")
		}
		c.Display.FontFamily = value
	case "font_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for font_size: %w", err)
		}
		if v < 8 || v > 72 {
			return fmt.Errorf("invalid font_size: %d (must be 8-72)", v)
		}
		c.Display.FontSize = v
	case "line_height":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for line_height: %w", err)
		}
		if v < 1.0 || v > 3.0 {
			return fmt.Errorf("invalid line_height: %g (must be 1.0-3.0)", v)
		}
		c.Display.LineHeight = v
	case "color_theme":
		if !isValidTheme(value) {
			return fmt.Errorf("invalid color_theme: %s (must be light, dark, high-contrast, or sepia)", value)
		}
		c.Display.ColorTheme = value
	case "zoom":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for zoom: %w", err)
		}
		c.Display.Zoom = ClampZoom(v)
	case "show_line_numbers":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for show_line_numbers: %w", err)
		}
		c.Display.ShowLineNumbers = v
	case "highlight_current_line":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for highlight_current_line: %w", err)
		}
		c.Display.HighlightCurrentLine = v
	case "show_whitespace":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for show_whitespace: %w", err)
		}
		c.Display.ShowWhitespace = v
	default:
		return fmt.Errorf("unknown field: display.%s", field)
	}
	return nil
}

func (c *Config) getBehaviorField(field string) (string, error) {
	switch field {
	case "word_wrap":
		return strconv.FormatBool(c.Behavior.WordWrap), nil
	case "tab_size":
		return strconv.Itoa(c.Behavior.TabSize), nil
	case "insert_spaces":
		return strconv.FormatBool(c.Behavior.InsertSpaces), nil
	case "auto_indent":
		return strconv.FormatBool(c.Behavior.AutoIndent), nil
	case "spell_check":
		return strconv.FormatBool(c.Behavior.SpellCheck), nil
	case "spell_check_language":
		return c.Behavior.SpellCheckLanguage, nil
	default:
		return "", fmt.Errorf("unknown field: behavior.%s", field)
	}
}

func (c *Config) setBehaviorField(field, value string) error {
	switch field {
	case "word_wrap":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for word_wrap: %w", err)
		}
		c.Behavior.WordWrap = v
	case "tab_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for tab_size: %w", err)
		}
		if v < 1 || v > 8 {
			return fmt.Errorf("invalid tab_size: %d (must be 1-8)", v)
		}
		c.Behavior.TabSize = v
	case "insert_spaces":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for insert_spaces: %w", err)
		}
		c.Behavior.InsertSpaces = v
	case "auto_indent":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for auto_indent: %w", err)
		}
		c.Behavior.AutoIndent = v
	case "spell_check":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for spell_check: %w", err)
		}
		c.Behavior.SpellCheck = v
	case "spell_check_language":
		if !isValidLanguage(value) {
			return fmt.Errorf("invalid spell_check_language: %s", value)
		}
		c.Behavior.SpellCheckLanguage = value
	default:
		return fmt.Errorf("unknown field: behavior.%s", field)
	}
	return nil
}

func (c *Config) getFilesField(field string) (string, error) {
	switch field {
	case "default_save_format":
		return c.Files.DefaultSaveFormat, nil
	case "auto_save_interval_secs":
		return strconv.Itoa(c.Files.AutoSaveIntervalSecs), nil
	case "enable_backup":
		return strconv.FormatBool(c.Files.EnableBackup), nil
	case "undo_limit":
		return strconv.Itoa(c.Files.UndoLimit), nil
	default:
		return "", fmt.Errorf("unknown field: files.%s", field)
	}
}

func (c *Config) setFilesField(field, value string) error {
	switch field {
	case "default_save_format":
		if !isValidSaveFormat(value) {
			return fmt.Errorf("invalid default_save_format: %s (must be txt, rtf, md, json, csv, or xml)", value)
		}
		c.Files.DefaultSaveFormat = value
	case "auto_save_interval_secs":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for auto_save_interval_secs: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid auto_save_interval_secs: must be non-negative")
		}
		c.Files.AutoSaveIntervalSecs = v
	case "enable_backup":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enable_backup: %w", err)
		}
		c.Files.EnableBackup = v
	case "undo_limit":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for undo_limit: %w", err)
		}
		if v < 1 || v > 1000 {
			return fmt.Errorf("invalid undo_limit: %d (must be 1-1000)", v)
		}
		c.Files.UndoLimit = v
	default:
		return fmt.Errorf("unknown field: files.%s", field)
	}
	return nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "match_case":
		return strconv.FormatBool(c.Search.MatchCase), nil
	case "whole_word":
		return strconv.FormatBool(c.Search.WholeWord), nil
	case "use_regex":
		return strconv.FormatBool(c.Search.UseRegex), nil
	case "history_size":
		return strconv.Itoa(c.Search.HistorySize), nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	switch field {
	case "match_case", "whole_word", "use_regex":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		switch field {
		case "match_case":
			c.Search.MatchCase = v
		case "whole_word":
			c.Search.WholeWord = v
		default:
			c.Search.UseRegex = v
		}
	case "history_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for history_size: %w", err)
		}
		if v < 1 || v > 100 {
			return fmt.Errorf("invalid history_size: %d (must be 1-100)", v)
		}
		c.Search.HistorySize = v
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}
	return nil
}

func (c *Config) getAdvancedField(field string) (string, error) {
	switch field {
	case "keyboard_shortcuts":
		return c.Advanced.KeyboardShortcuts, nil
	case "screen_reader_optimization":
		return strconv.FormatBool(c.Advanced.ScreenReaderOptimization), nil
	case "log_level":
		return c.Advanced.LogLevel, nil
	case "log_file":
		return c.Advanced.LogFile, nil
	default:
		return "", fmt.Errorf("unknown field: advanced.%s", field)
	}
}

func (c *Config) setAdvancedField(field, value string) error {
	switch field {
	case "keyboard_shortcuts":
		if !isValidShortcuts(value) {
			return fmt.Errorf("invalid keyboard_shortcuts: %s (must be default, vscode, sublime, vim, or emacs)", value)
		}
		c.Advanced.KeyboardShortcuts = value
	case "screen_reader_optimization":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for screen_reader_optimization: %w", err)
		}
		c.Advanced.ScreenReaderOptimization = v
	case "log_level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", value)
		}
		c.Advanced.LogLevel = value
	case "log_file":
		c.Advanced.LogFile = value
	default:
		return fmt.Errorf("unknown field: advanced.%s", field)
	}
	return nil
}

// Validate validates the configuration. Zoom is clamped rather than
// rejected.
func (c *Config) Validate() error {
	if c.Display.FontSize < 8 || c.Display.FontSize > 72 {
		return fmt.Errorf("display.font_size must be 8-72 (got: %d)", c.Display.FontSize)
	}

	if c.Display.LineHeight < 1.0 || c.Display.LineHeight > 3.0 {
		return fmt.Errorf("display.line_height must be 1.0-3.0 (got: %g)", c.Display.LineHeight)
	}

	if !isValidTheme(c.Display.ColorTheme) {
		return fmt.Errorf("display.color_theme must be light, dark, high-contrast, or sepia (got: %s)", c.Display.ColorTheme)
	}

	c.Display.Zoom = ClampZoom(c.Display.Zoom)

	if c.Behavior.TabSize < 1 || c.Behavior.TabSize > 8 {
		return fmt.Errorf("behavior.tab_size must be 1-8 (got: %d)", c.Behavior.TabSize)
	}

	if !isValidLanguage(c.Behavior.SpellCheckLanguage) {
		return fmt.Errorf("behavior.spell_check_language is not supported (got: %s)", c.Behavior.SpellCheckLanguage)
	}

	if !isValidSaveFormat(c.Files.DefaultSaveFormat) {
		return fmt.Errorf("files.default_save_format must be txt, rtf, md, json, csv, or xml (got: %s)", c.Files.DefaultSaveFormat)
	}

	if c.Files.AutoSaveIntervalSecs < 0 {
		return errors.New("files.auto_save_interval_secs must be >= 0")
	}

	if c.Files.UndoLimit < 1 || c.Files.UndoLimit > 1000 {
		return fmt.Errorf("files.undo_limit must be 1-1000 (got: %d)", c.Files.UndoLimit)
	}

	if c.Search.HistorySize < 1 || c.Search.HistorySize > 100 {
		return fmt.Errorf("search.history_size must be 1-100 (got: %d)", c.Search.HistorySize)
	}

	if !isValidShortcuts(c.Advanced.KeyboardShortcuts) {
		return fmt.Errorf("advanced.keyboard_shortcuts must be default, vscode, sublime, vim, or emacs (got: %s)", c.Advanced.KeyboardShortcuts)
	}

	if !isValidLogLevel(c.Advanced.LogLevel) {
		return fmt.Errorf("advanced.log_level must be debug, info, warn, or error (got: %s)", c.Advanced.LogLevel)
	}

	return nil
}

// ClampZoom snaps a zoom percentage to the nearest step of 10 in [50, 200].
func ClampZoom(v int) int {
	if v < 50 {
		return 50
	}
	if v > 200 {
		return 200
	}
	return (v + 5) / 10 * 10
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidTheme(theme string) bool {
	switch theme {
	case "light", "dark", "high-contrast", "sepia":
		return true
	default:
		return false
	}
}

func isValidSaveFormat(format string) bool {
	switch format {
	case "txt", "rtf", "md", "json", "csv", "xml":
		return true
	default:
		return false
	}
}

func isValidShortcuts(scheme string) bool {
	switch scheme {
	case "default", "vscode", "sublime", "vim", "emacs":
		return true
	default:
		return false
	}
}

func isValidLanguage(lang string) bool {
	switch lang {
	case "en-US", "en-GB", "es-ES", "fr-FR", "de-DE", "it-IT", "pt-BR", "ru-RU", "zh-CN", "ja-JP":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NOTEPADCC_THEME"); v != "" {
		if isValidTheme(v) {
			c.Display.ColorTheme = v
		}
	}
	if v := os.Getenv("NOTEPADCC_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Advanced.LogLevel = "debug"
		}
	}
	if v := os.Getenv("NOTEPADCC_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Advanced.LogLevel = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"display.font_family",
		"display.font_size",
		"display.line_height",
		"display.color_theme",
		"display.zoom",
		"display.show_line_numbers",
		"display.highlight_current_line",
		"display.show_whitespace",
		"behavior.word_wrap",
		"behavior.tab_size",
		"behavior.insert_spaces",
		"behavior.auto_indent",
		"behavior.spell_check",
		"behavior.spell_check_language",
		"files.default_save_format",
		"files.auto_save_interval_secs",
		"files.enable_backup",
		"files.undo_limit",
		"search.match_case",
		"search.whole_word",
		"search.use_regex",
		"search.history_size",
		"advanced.keyboard_shortcuts",
		"advanced.screen_reader_optimization",
		"advanced.log_level",
		"advanced.log_file",
	}
}
