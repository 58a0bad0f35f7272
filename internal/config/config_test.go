package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvimlc/languageclient/internal/sign"
)

func TestDefaultLogDir(t *testing.T) {
	t.Parallel()

	env := map[string]string{"TMP": "/var/tmp-a", "TEMP": "/var/tmp-b"}
	getenv := func(key string) string { return env[key] }

	if got := DefaultLogDir(getenv); got != "/var/tmp-a" {
		t.Fatalf("DefaultLogDir() = %q, want %q", got, "/var/tmp-a")
	}

	delete(env, "TMP")
	if got := DefaultLogDir(getenv); got != "/var/tmp-b" {
		t.Fatalf("DefaultLogDir() = %q, want %q", got, "/var/tmp-b")
	}

	delete(env, "TEMP")
	if got := DefaultLogDir(getenv); got != "/tmp" {
		t.Fatalf("DefaultLogDir() = %q, want %q", got, "/tmp")
	}
}

func TestLogPath(t *testing.T) {
	t.Parallel()

	cfg := Default("/var/log/lc")
	want := filepath.Join("/var/log/lc", "LanguageClient.log")
	if got := cfg.LogPath(); got != want {
		t.Fatalf("LogPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	defaults := Default("/tmp")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), defaults)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.LogDir != defaults.LogDir || cfg.LogLevel != defaults.LogLevel {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, defaults)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "client.toml")
	body := `
log_level = "debug"
min_severity = "warning"

[servers.rust]
command = ["rust-analyzer"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, Default("/tmp"))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if level, err := cfg.Level(); err != nil || level != slog.LevelDebug {
		t.Fatalf("Level() = %v, %v, want debug", level, err)
	}
	if sev, err := cfg.Severity(); err != nil || sev != sign.SeverityWarning {
		t.Fatalf("Severity() = %v, %v, want warning", sev, err)
	}
	if cfg.LogDir != "/tmp" {
		t.Fatalf("LogDir = %q, want kept default", cfg.LogDir)
	}
	got, ok := cfg.Servers["rust"]
	if !ok || len(got.Command) != 1 || got.Command[0] != "rust-analyzer" {
		t.Fatalf("Servers[rust] = %+v, want rust-analyzer command", got)
	}
}

func TestMergeJSON(t *testing.T) {
	t.Parallel()

	cfg := Default("/tmp")
	cfg.Servers = map[string]Server{"go": {Command: []string{"gopls"}}}

	merged, err := cfg.MergeJSON([]byte(`{
		"minSeverity": "error",
		"logDir": null,
		"servers": {"rust": {"command": ["rust-analyzer"]}}
	}`))
	if err != nil {
		t.Fatalf("MergeJSON error = %v", err)
	}

	if sev, err := merged.Severity(); err != nil || sev != sign.SeverityError {
		t.Fatalf("Severity() = %v, %v, want error", sev, err)
	}
	if merged.LogDir != "/tmp" {
		t.Fatalf("LogDir = %q, want null override ignored", merged.LogDir)
	}
	if _, ok := merged.Servers["go"]; !ok {
		t.Fatal("existing server entry lost in merge")
	}
	if _, ok := merged.Servers["rust"]; !ok {
		t.Fatal("new server entry missing after merge")
	}
}

func TestMergeJSONRejectsBadSettings(t *testing.T) {
	t.Parallel()

	if _, err := Default("/tmp").MergeJSON([]byte(`{"logLevel": "loud"}`)); err == nil {
		t.Fatal("expected error for unknown log level")
	}
	if _, err := Default("/tmp").MergeJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadRejectsBadEnums(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(`log_level = "loud"`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path, Default("/tmp")); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
