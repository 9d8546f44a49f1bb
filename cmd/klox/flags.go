package main

import (
	"fmt"
	"strings"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

// parseGlobalFlags strips --config and --log-level from anywhere before "--"
// and returns the remaining arguments in order.
func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		var target *string
		switch name {
		case "--config":
			target = &opts.configPath
		case "--log-level":
			target = &opts.logLevel
		default:
			remaining = append(remaining, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s expects a value", name)
			}
			i++
			value = args[i]
		}
		if strings.TrimSpace(value) == "" {
			return opts, nil, fmt.Errorf("%s expects a value", name)
		}
		*target = value
	}
	return opts, remaining, nil
}
