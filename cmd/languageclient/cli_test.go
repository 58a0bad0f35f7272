package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testGetenv(dir string) func(string) string {
	return func(key string) string {
		if key == "TMP" {
			return dir
		}
		return ""
	}
}

func frame(t *testing.T, body string) string {
	t.Helper()
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestRunExitsCleanlyOnExitNotification(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := strings.NewReader(frame(t, `{"jsonrpc":"2.0","method":"exit"}`))
	var out, errOut bytes.Buffer

	code := run(context.Background(), in, &out, &errOut, nil, testGetenv(tmp))
	if code != exitOK {
		t.Fatalf("run() = %d, want %d (stderr: %s)", code, exitOK, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(tmp, "LanguageClient.log")); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestRunWritesCommandBatchesToCommandsFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cmdsPath := filepath.Join(tmp, "commands")
	body := `{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics",` +
		`"params":{"uri":"file:///m.rs","diagnostics":[` +
		`{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}},"severity":1,"message":"x"}]}}`
	in := strings.NewReader(frame(t, body) + frame(t, `{"jsonrpc":"2.0","method":"exit"}`))
	var out, errOut bytes.Buffer

	code := run(context.Background(), in, &out, &errOut,
		[]string{"-commands", cmdsPath}, testGetenv(tmp))
	if code != exitOK {
		t.Fatalf("run() = %d, want %d (stderr: %s)", code, exitOK, errOut.String())
	}

	got, err := os.ReadFile(cmdsPath)
	if err != nil {
		t.Fatalf("read commands file: %v", err)
	}
	want := "echo | execute 'sign place 75000 line=1 name=LanguageClientError file=/m.rs'\n"
	if string(got) != want {
		t.Fatalf("commands file = %q, want %q", got, want)
	}
}

func TestRunRejectsUnknownFlags(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), strings.NewReader(""), &out, &errOut,
		[]string{"-nonsense"}, testGetenv(t.TempDir()))
	if code != exitConfig {
		t.Fatalf("run() = %d, want %d", code, exitConfig)
	}
	if errOut.Len() == 0 {
		t.Fatal("expected usage output on stderr")
	}
}

func TestRunMergesSettingsFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	settings := filepath.Join(tmp, "settings.json")
	if err := os.WriteFile(settings, []byte(`{"logLevel":"loud"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errOut bytes.Buffer
	code := run(context.Background(), strings.NewReader(""), &out, &errOut,
		[]string{"-settings", settings}, testGetenv(tmp))
	if code != exitConfig {
		t.Fatalf("run() = %d, want %d for invalid settings", code, exitConfig)
	}
}
