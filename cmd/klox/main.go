package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xuorig/klox/pkg/driver"
)

const cliToolVersion = "klox 0.1.0"

// cli carries the streams and resolved settings for one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	config *driver.Config
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return runWith(args, os.Stdin, os.Stdout, os.Stderr)
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
		return driver.ExitUsage
	}

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	if code, ok := c.configure(opts); !ok {
		return code
	}

	if len(remaining) == 0 {
		return c.runRepl(nil)
	}
	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return driver.ExitOK
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return driver.ExitOK
	case "repl":
		return c.runRepl(remaining[1:])
	case "run":
		return c.runEntry(remaining[1:])
	case "ast":
		return c.runAST(remaining[1:])
	default:
		return c.runEntry(remaining)
	}
}

// configure loads the config and builds the logger. The flag level wins over
// the configured one.
func (c *cli) configure(opts globalOptions) (int, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := driver.ResolveConfig(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load config: %v\n", err)
		return 1, false
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		parsed, err := driver.ParseLogLevel(opts.logLevel)
		if err != nil {
			fmt.Fprintf(c.stderr, "--log-level: %v\n", err)
			return driver.ExitUsage, false
		}
		level = parsed
	}
	c.config = cfg
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Path != "" {
		c.logger.Debug("loaded config", slog.String("path", cfg.Path))
	}
	return driver.ExitOK, true
}
