package driver

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigBasic(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
prompt: "lox> "
history_file: .history
log_level: DEBUG
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Prompt != "lox> " {
		t.Fatalf("Prompt = %q, want %q", cfg.Prompt, "lox> ")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if want := filepath.Join(filepath.Dir(path), ".history"); cfg.HistoryFile != want {
		t.Fatalf("HistoryFile = %q, want %q", cfg.HistoryFile, want)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadConfigEmptyUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), ``)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Prompt != def.Prompt || cfg.LogLevel != def.LogLevel || cfg.HistoryFile != def.HistoryFile {
		t.Fatalf("empty config = %#v, want defaults %#v", cfg, def)
	}
}

func TestLoadConfigEmptyPromptIsKept(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `prompt: ""`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Prompt != "" {
		t.Fatalf("Prompt = %q, want empty", cfg.Prompt)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
prompt: "> "
colour: true
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Fatalf("error should name the unknown key, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
prompt: "a\nb"
log_level: chatty
`)
	_, err := LoadConfig(path)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	msg := err.Error()
	for _, fragment := range []string{
		"prompt must be a single line",
		`log_level: unknown level "chatty"`,
	} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("validation error missing fragment %q: %s", fragment, msg)
		}
	}
}

func TestFindConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `log_level: info`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig returned error: %v", err)
	}
	if found != path {
		t.Fatalf("FindConfig = %q, want %q", found, path)
	}

	cfg, err := ResolveConfig("", nested)
	if err != nil {
		t.Fatalf("ResolveConfig returned error: %v", err)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestResolveConfigExplicitPathWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `log_level: info`)
	other := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(other, []byte("log_level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := ResolveConfig(other, root)
	if err != nil {
		t.Fatalf("ResolveConfig returned error: %v", err)
	}
	if cfg.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v, want error", cfg.LogLevel)
	}

	if _, err := ResolveConfig(filepath.Join(root, "missing.yml"), root); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"Info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLogLevel(input)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatal("ParseLogLevel(loud) should fail")
	}
}

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
