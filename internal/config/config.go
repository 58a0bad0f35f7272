// Package config holds the language client configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nvimlc/languageclient/internal/jsonmerge"
	"github.com/nvimlc/languageclient/internal/sign"
)

// logFileName is the client log file placed in the configured log
// directory.
const logFileName = "LanguageClient.log"

// Config is the client configuration, decoded from TOML on disk and
// optionally overridden at runtime through JSON settings pushed by the
// editor.
type Config struct {
	// LogDir is the directory holding the client log. It is always an
	// explicitly resolved path, never read from the environment at use
	// sites.
	LogDir      string            `toml:"log_dir" json:"logDir"`
	LogLevel    string            `toml:"log_level" json:"logLevel"`
	MinSeverity string            `toml:"min_severity" json:"minSeverity"`
	Servers     map[string]Server `toml:"servers" json:"servers"`
}

// Server describes how to reach the language server for one language.
type Server struct {
	Command []string `toml:"command" json:"command"`
}

// Default returns the baseline configuration. logDir must already be
// resolved by the caller (see DefaultLogDir).
func Default(logDir string) Config {
	return Config{
		LogDir:      logDir,
		LogLevel:    "info",
		MinSeverity: "hint",
		Servers:     map[string]Server{},
	}
}

// Load decodes the TOML file at path over defaults. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// MergeJSON deep-merges editor-pushed JSON settings over the
// configuration and returns the result. Nulls in raw leave the
// corresponding fields untouched.
func (c Config) MergeJSON(raw []byte) (Config, error) {
	base, err := json.Marshal(c)
	if err != nil {
		return Config{}, fmt.Errorf("encode config: %w", err)
	}
	combined, err := jsonmerge.Combine(base, raw)
	if err != nil {
		return Config{}, fmt.Errorf("merge settings: %w", err)
	}
	var out Config
	if err := json.Unmarshal(combined, &out); err != nil {
		return Config{}, fmt.Errorf("decode merged settings: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Config{}, fmt.Errorf("merged settings: %w", err)
	}
	return out, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Severity(); err != nil {
		return err
	}
	return nil
}

// LogPath returns the full path of the client log file.
func (c Config) LogPath() string {
	return filepath.Join(c.LogDir, logFileName)
}

// Level parses the configured log level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// Severity parses the minimum severity a diagnostic must have to be
// displayed as a sign.
func (c Config) Severity() (sign.Severity, error) {
	switch strings.ToLower(c.MinSeverity) {
	case "", "hint":
		return sign.SeverityHint, nil
	case "info", "information":
		return sign.SeverityInfo, nil
	case "warn", "warning":
		return sign.SeverityWarning, nil
	case "error":
		return sign.SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", c.MinSeverity)
	}
}

// DefaultLogDir resolves the log directory from the environment the
// way the host editor expects: TMP, then TEMP, then /tmp. getenv is
// injected so the resolution stays testable and happens exactly once,
// at startup.
func DefaultLogDir(getenv func(string) string) string {
	for _, key := range []string{"TMP", "TEMP"} {
		if dir := getenv(key); dir != "" {
			return dir
		}
	}
	return "/tmp"
}
