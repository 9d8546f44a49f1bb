package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  klox [--config PATH] [--log-level LEVEL]")
	fmt.Fprintln(w, "  klox [flags] <file.lox>")
	fmt.Fprintln(w, "  klox [flags] run [--rev REV] <file.lox>")
	fmt.Fprintln(w, "  klox [flags] run git+<url>@<rev>:<path>")
	fmt.Fprintln(w, "  klox [flags] ast [--json] <file.lox>")
	fmt.Fprintln(w, "  klox [flags] repl")
	fmt.Fprintln(w, "  klox version")
}
