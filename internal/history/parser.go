package history

import (
	"os"
	"path/filepath"
	"strings"
)

// Shells lists the shells with a history importer.
var Shells = []string{"bash", "zsh"}

// DetectShell attempts to detect the user's current shell from environment.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}

	return "bash"
}

// NewParser creates a Parser for the given shell type.
// Returns nil if the shell is not supported.
func NewParser(shell string) Parser {
	switch shell {
	case "bash":
		return NewBashParser()
	case "zsh":
		return NewZshParser()
	default:
		return nil
	}
}

// firstExisting returns the first regular file among candidates, or the first
// candidate when none exist.
func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return candidates[0]
}

// CleanOptions controls which imported lines are kept.
type CleanOptions struct {
	// RemoveDuplicates removes consecutive duplicate commands.
	RemoveDuplicates bool

	// SkipBuiltins skips common built-in commands.
	SkipBuiltins bool

	// SkipCommands lists command prefixes to drop.
	SkipCommands []string
}

// CleanLines drops empty lines and applies opts.
func CleanLines(lines []HistoryLine, opts CleanOptions) []HistoryLine {
	result := make([]HistoryLine, 0, len(lines))
	var lastCommand string

	for _, line := range lines {
		cmd := strings.TrimSpace(line.Command)
		if cmd == "" {
			continue
		}

		if opts.RemoveDuplicates && cmd == lastCommand {
			continue
		}

		skip := false
		for _, prefix := range opts.SkipCommands {
			if strings.HasPrefix(cmd, prefix) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		if opts.SkipBuiltins && isBuiltin(cmd) {
			continue
		}

		result = append(result, line)
		lastCommand = cmd
	}

	return result
}

var builtins = map[string]bool{
	"cd": true, "pushd": true, "popd": true, "dirs": true, "pwd": true,
	"ls": true, "la": true, "ll": true, "clear": true,
	"history": true, "exit": true, "logout": true,
	"jobs": true, "fg": true, "bg": true,
}

func isBuiltin(cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}
	return builtins[fields[0]]
}
