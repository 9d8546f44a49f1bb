package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file discovered from the
// working directory upward.
const ConfigFileName = "klox.yml"

const defaultPrompt = "> "

// ErrConfigNotFound is returned by FindConfig when no klox.yml exists in the
// start directory or any of its parents.
var ErrConfigNotFound = errors.New("config: " + ConfigFileName + " not found")

// Config holds interpreter front-end settings.
type Config struct {
	Path        string
	Prompt      string
	HistoryFile string
	LogLevel    slog.Level
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Prompt      *string `yaml:"prompt"`
	HistoryFile string  `yaml:"history_file"`
	LogLevel    string  `yaml:"log_level"`
}

// DefaultConfig is used when no klox.yml is found.
func DefaultConfig() *Config {
	return &Config{
		Prompt:      defaultPrompt,
		HistoryFile: defaultHistoryFile(),
		LogLevel:    slog.LevelWarn,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".klox_history")
}

// FindConfig walks from start toward the filesystem root and returns the
// first klox.yml it sees.
func FindConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	dir := filepath.Clean(abs)
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}

// LoadConfig parses and validates a klox.yml. Unknown keys are rejected. An
// empty file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	return raw.toConfig(absPath)
}

// ResolveConfig loads explicit when set, otherwise the nearest klox.yml above
// dir, otherwise the defaults.
func ResolveConfig(explicit, dir string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	path, err := FindConfig(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

func (raw configFile) toConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path

	var errs ValidationError
	if raw.Prompt != nil {
		if strings.ContainsAny(*raw.Prompt, "\r\n") {
			errs.Issues = append(errs.Issues, "prompt must be a single line")
		}
		cfg.Prompt = *raw.Prompt
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		parsed, err := ParseLogLevel(level)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("log_level: %v", err))
		}
		cfg.LogLevel = parsed
	}
	if history := strings.TrimSpace(raw.HistoryFile); history != "" {
		resolved, err := expandPath(history, filepath.Dir(path))
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("history_file: %v", err))
		}
		cfg.HistoryFile = resolved
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

// ParseLogLevel accepts debug, info, warn, or error (any case).
func ParseLogLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown level %q (expected debug, info, warn, or error)", value)
	}
	return level, nil
}

// expandPath resolves "~/" against the home directory and relative paths
// against base.
func expandPath(path, base string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(base, path), nil
}
