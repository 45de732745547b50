package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// zsh EXTENDED_HISTORY: ": <start>:<elapsed>;<command>"
var zshEntry = regexp.MustCompile(`^: ?(\d+):(\d+);(.*)`)

// ZshParser implements Parser for zsh history files.
type ZshParser struct{}

// NewZshParser creates a new ZshParser.
func NewZshParser() *ZshParser {
	return &ZshParser{}
}

// Parse reads the zsh history file at path. Both the extended format and
// plain one-command-per-line files are accepted.
//
// Example:
//
//	: 1616420000:0;ls -la
//	: 1616420100:3;make test
//
// Multi-line commands continue on lines without the prefix:
//
//	: 1616420200:0;echo "multi\
//	line"
func (p *ZshParser) Parse(path string) ([]HistoryLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zsh history: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []HistoryLine
	var current *HistoryLine
	var cmd strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Command = strings.TrimSpace(cmd.String())
		if current.Command != "" {
			lines = append(lines, *current)
		}
		current = nil
		cmd.Reset()
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if matches := zshEntry.FindStringSubmatch(line); matches != nil {
			flush()

			entry := HistoryLine{Shell: "zsh", Duration: DurationUnknown}
			if ts, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
				entry.Timestamp = time.Unix(ts, 0).UTC()
			}
			if elapsed, err := strconv.ParseInt(matches[2], 10, 64); err == nil {
				entry.Duration = elapsed * int64(time.Second)
			}
			current = &entry
			cmd.WriteString(matches[3])
			continue
		}

		// Continuation of the previous command
		if current != nil && strings.HasSuffix(cmd.String(), "\\") {
			trimmed := strings.TrimRight(strings.TrimSuffix(cmd.String(), "\\"), " \t")
			cmd.Reset()
			cmd.WriteString(trimmed)
			cmd.WriteString("\n")
			cmd.WriteString(line)
			continue
		}

		flush()
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Plain history without EXTENDED_HISTORY
		current = &HistoryLine{Shell: "zsh", Duration: DurationUnknown}
		cmd.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading zsh history: %w", err)
	}

	return lines, nil
}

// DetectPath returns the default path to the zsh history file.
func (p *ZshParser) DetectPath() (string, error) {
	if histfile := os.Getenv("HISTFILE"); histfile != "" && strings.Contains(histfile, "zsh") {
		return histfile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return firstExisting([]string{
		filepath.Join(home, ".zsh_history"),
		filepath.Join(home, ".zhistory"),
		filepath.Join(home, ".histfile"),
	}), nil
}
