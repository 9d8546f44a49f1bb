package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuorig/klox/pkg/ast"
	"github.com/xuorig/klox/pkg/driver"
	"github.com/xuorig/klox/pkg/parser"
)

func (c *cli) runEntry(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	rev := fs.String("rev", "", "run the file as committed at this git revision")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return driver.ExitOK
		}
		return driver.ExitUsage
	}
	if fs.NArg() != 1 {
		if fs.NArg() > 1 {
			fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		}
		printUsage(c.stderr)
		return driver.ExitUsage
	}

	src, err := driver.LoadSource(fs.Arg(0), *rev)
	if err != nil {
		fmt.Fprintf(c.stderr, "klox: %v\n", err)
		return driver.ExitNoInput
	}
	if src.Revision != "" {
		c.logger.Debug("loaded source from git", slog.String("source", src.Name), slog.String("commit", src.Revision))
	}

	runner := driver.NewRunner(c.stdout, c.stderr, c.logger)
	if err := runner.Run(src.Name, src.Text); err != nil {
		c.logger.Debug("run stopped", slog.String("source", src.Name), slog.Int("exit", runner.ExitCode()))
	}
	return runner.ExitCode()
}

// runAST prints each top-level statement in prefix form, or the whole tree as
// JSON. Nothing is evaluated.
func (c *cli) runAST(args []string) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	asJSON := fs.Bool("json", false, "emit the syntax tree as JSON")
	rev := fs.String("rev", "", "read the file as committed at this git revision")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return driver.ExitOK
		}
		return driver.ExitUsage
	}
	if fs.NArg() != 1 {
		printUsage(c.stderr)
		return driver.ExitUsage
	}

	src, err := driver.LoadSource(fs.Arg(0), *rev)
	if err != nil {
		fmt.Fprintf(c.stderr, "klox: %v\n", err)
		return driver.ExitNoInput
	}
	runner := driver.NewRunner(c.stdout, c.stderr, c.logger)
	stmts, err := runner.Parse(src.Name, src.Text)
	if errors.Is(err, parser.ErrParse) {
		return driver.ExitDataErr
	}

	if *asJSON {
		data, err := json.MarshalIndent(stmts, "", "  ")
		if err != nil {
			fmt.Fprintf(c.stderr, "klox: encode ast: %v\n", err)
			return 1
		}
		fmt.Fprintln(c.stdout, string(data))
		return driver.ExitOK
	}
	for _, stmt := range stmts {
		fmt.Fprintln(c.stdout, ast.PrintStmt(stmt))
	}
	return driver.ExitOK
}
