// Package history defines rewind's history record, the store contract the
// search front-ends query, the batch filter pipeline and the shell history
// importers.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DurationUnknown marks a record whose runtime was never measured.
const DurationUnknown int64 = -1

// History is one recorded command invocation.
type History struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Duration is in nanoseconds, or DurationUnknown.
	Duration int64  `json:"duration" yaml:"duration"`
	Exit     int64  `json:"exit" yaml:"exit"`
	Command  string `json:"command" yaml:"command"`
	Cwd      string `json:"cwd" yaml:"cwd"`
	Session  string `json:"session" yaml:"session"`
	Hostname string `json:"hostname" yaml:"hostname"`
}

// SearchMode selects how a query string matches commands.
type SearchMode int

const (
	// SearchModePrefix matches commands starting with the query.
	SearchModePrefix SearchMode = iota
	// SearchModeFullText matches commands containing the query.
	SearchModeFullText
	// SearchModeFuzzy matches commands containing the query's characters in order.
	SearchModeFuzzy
)

var searchModeNames = map[SearchMode]string{
	SearchModePrefix:   "prefix",
	SearchModeFullText: "fulltext",
	SearchModeFuzzy:    "fuzzy",
}

func (m SearchMode) String() string {
	if name, ok := searchModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SearchMode(%d)", int(m))
}

// ParseSearchMode maps a config or flag value to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	for mode, name := range searchModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return SearchModeFuzzy, fmt.Errorf("unknown search mode %q (valid: prefix, fulltext, fuzzy)", s)
}

// Store is the read side of the history database.
type Store interface {
	// List returns up to limit records, newest first. With unique set, only
	// the newest record per distinct command is returned.
	List(ctx context.Context, limit int, unique bool) ([]History, error)

	// Search returns records whose command matches query under mode, best
	// match first. A limit of zero or less means no limit.
	Search(ctx context.Context, mode SearchMode, query string, limit int) ([]History, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)
}

// HistoryLine is a single command read from a shell history file.
type HistoryLine struct {
	Timestamp time.Time
	Command   string
	Shell     string // "bash", "zsh"
	// Duration in nanoseconds, DurationUnknown when the shell does not record it.
	Duration int64
}

// Parser reads a shell's history file.
type Parser interface {
	Parse(path string) ([]HistoryLine, error)
	DetectPath() (string, error)
}
