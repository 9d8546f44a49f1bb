package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/xuorig/klox/pkg/driver"
)

const replSourceName = "<repl>"

// lineReader is the line editor behind the REPL: liner on a terminal, a
// plain scanner otherwise.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

func (c *cli) runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(c.stderr, "klox repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return driver.ExitUsage
	}

	reader := c.newLineReader()
	defer func() {
		if err := reader.Close(); err != nil {
			c.logger.Warn("closing line reader", slog.Any("error", err))
		}
	}()

	// One runner for the whole session: globals persist, error flags are
	// cleared after every line.
	runner := driver.NewRunner(c.stdout, c.stderr, c.logger)
	for {
		line, err := reader.Prompt(c.config.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.stdout)
			return driver.ExitOK
		}
		if err != nil {
			fmt.Fprintf(c.stderr, "klox: read input: %v\n", err)
			return 1
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		reader.AppendHistory(line)
		if trimmed == ":quit" {
			return driver.ExitOK
		}

		if err := runner.Run(replSourceName, line); err != nil && runner.Failed() {
			return runner.ExitCode()
		}
		runner.Reset()
	}
}

func (c *cli) newLineReader() lineReader {
	if isTerminal(c.stdin) && isTerminal(c.stdout) {
		return newLinerReader(c.config.HistoryFile, c.logger)
	}
	return &scanReader{scanner: bufio.NewScanner(c.stdin), out: c.stdout}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

type linerReader struct {
	state       *liner.State
	historyPath string
	logger      *slog.Logger
}

func newLinerReader(historyPath string, logger *slog.Logger) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				logger.Debug("reading history", slog.String("path", historyPath), slog.Any("error", err))
			}
			_ = f.Close()
		}
	}
	return &linerReader{state: state, historyPath: historyPath, logger: logger}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *linerReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			if _, err := r.state.WriteHistory(f); err != nil {
				r.logger.Debug("writing history", slog.String("path", r.historyPath), slog.Any("error", err))
			}
			_ = f.Close()
		}
	}
	return r.state.Close()
}

// scanReader serves piped input. It still echoes the prompt.
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }
