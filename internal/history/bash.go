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

var bashTimestamp = regexp.MustCompile(`^#(\d+)$`)

// BashParser implements Parser for bash history files.
type BashParser struct{}

// NewBashParser creates a new BashParser.
func NewBashParser() *BashParser {
	return &BashParser{}
}

// Parse reads the bash history file at path.
// Bash history format varies:
//   - With HISTTIMEFORMAT: #timestamp followed by the command
//   - Without HISTTIMEFORMAT: just commands, one per line
//
// Example with timestamps:
//
//	#1616420000
//	ls -la
//	#1616420100
//	git status
//
// Lines without a timestamp keep a zero Timestamp. Bash never records
// runtime, so every line carries DurationUnknown.
func (p *BashParser) Parse(path string) ([]HistoryLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bash history: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []HistoryLine
	var currentTimestamp time.Time
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			continue
		}

		if matches := bashTimestamp.FindStringSubmatch(line); matches != nil {
			if ts, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
				currentTimestamp = time.Unix(ts, 0).UTC()
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		// Commands starting with space are HISTCONTROL=ignorespace leftovers
		if strings.HasPrefix(line, " ") {
			continue
		}

		// Multi-line commands continue with a trailing backslash
		for strings.HasSuffix(line, "\\") {
			line = strings.TrimRight(strings.TrimSuffix(line, "\\"), " \t")
			line += "\n"
			if !scanner.Scan() {
				break
			}
			line += scanner.Text()
		}

		lines = append(lines, HistoryLine{
			Timestamp: currentTimestamp,
			Command:   strings.TrimSpace(line),
			Shell:     "bash",
			Duration:  DurationUnknown,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading bash history: %w", err)
	}

	return lines, nil
}

// DetectPath returns the default path to the bash history file.
func (p *BashParser) DetectPath() (string, error) {
	if histfile := os.Getenv("HISTFILE"); histfile != "" && strings.Contains(histfile, "bash") {
		return histfile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return firstExisting([]string{
		filepath.Join(home, ".bash_history"),
		filepath.Join(home, ".local/share/bash/history"),
	}), nil
}
