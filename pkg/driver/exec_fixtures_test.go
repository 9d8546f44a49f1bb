package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/xuorig/klox/pkg/parser"
)

type execManifest struct {
	Description string   `yaml:"description"`
	Entry       string   `yaml:"entry"`
	Stdout      []string `yaml:"stdout"`
	Diagnostics []string `yaml:"diagnostics"`
	Exit        int      `yaml:"exit"`
}

func TestExecFixtures(t *testing.T) {
	root := filepath.Join("testdata", "exec")
	dirs := collectExecFixtures(t, root)
	if len(dirs) == 0 {
		t.Fatalf("no exec fixtures under %s", root)
	}
	for _, dir := range dirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			t.Fatalf("relative path for %s: %v", dir, err)
		}
		t.Run(filepath.ToSlash(rel), func(t *testing.T) {
			runExecFixture(t, dir)
		})
	}
}

func collectExecFixtures(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read %s: %v", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yml")); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func readExecManifest(t *testing.T, dir string) execManifest {
	t.Helper()
	file, err := os.Open(filepath.Join(dir, "manifest.yml"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer file.Close()

	var manifest execManifest
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return manifest
}

func runExecFixture(t *testing.T, dir string) {
	t.Helper()

	manifest := readExecManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "main.lox"
	}
	source, err := LoadFile(filepath.Join(dir, entry))
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}

	var stdout, stderr bytes.Buffer
	runner := NewRunner(&stdout, &stderr, nil)
	runErr := runner.Run(source.Name, source.Text)

	if got := runner.ExitCode(); got != manifest.Exit {
		t.Fatalf("exit = %d, want %d (diagnostics %q)", got, manifest.Exit, runner.Diags.Messages())
	}
	if manifest.Exit == ExitDataErr && !errors.Is(runErr, parser.ErrParse) {
		t.Fatalf("Run error = %v, want parser.ErrParse", runErr)
	}
	if manifest.Exit == ExitOK && runErr != nil {
		t.Fatalf("Run error: %v", runErr)
	}

	if got := splitLines(stdout.String()); !reflect.DeepEqual(got, manifest.Stdout) {
		t.Fatalf("stdout = %q, want %q", got, manifest.Stdout)
	}
	if got := runner.Diags.Messages(); !equalOrEmpty(got, manifest.Diagnostics) {
		t.Fatalf("diagnostics = %q, want %q", got, manifest.Diagnostics)
	}
	wantStderr := ""
	if len(manifest.Diagnostics) > 0 {
		wantStderr = strings.Join(manifest.Diagnostics, "\n") + "\n"
	}
	if stderr.String() != wantStderr {
		t.Fatalf("stderr = %q, want %q", stderr.String(), wantStderr)
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func equalOrEmpty(got, want []string) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return reflect.DeepEqual(got, want)
}
