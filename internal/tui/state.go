// Package tui implements rewind's interactive history search.
package tui

import (
	"fmt"
	"strings"

	"github.com/chazuruo/rewind/internal/history"
)

// Selection is an optional index into the current results.
type Selection struct {
	index int
	valid bool
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

// SelectAt returns a selection of row i.
func SelectAt(i int) Selection {
	return Selection{index: i, valid: true}
}

// Index returns the selected row and whether there is one.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

func (s Selection) String() string {
	if !s.valid {
		return "none"
	}
	return fmt.Sprintf("%d", s.index)
}

// resetSelection is the selection after results are replaced: the first row,
// or nothing for an empty result set.
func resetSelection(n int) Selection {
	if n == 0 {
		return NoSelection
	}
	return SelectAt(0)
}

// towardFirst moves one row toward index 0, stopping there.
func (s Selection) towardFirst(n int) Selection {
	if n == 0 {
		return s
	}
	if !s.valid {
		return SelectAt(0)
	}
	if s.index == 0 {
		return s
	}
	return SelectAt(min(s.index-1, n-1))
}

// towardLast moves one row toward the final index, stopping there.
func (s Selection) towardLast(n int) Selection {
	if n == 0 {
		return s
	}
	if !s.valid {
		return SelectAt(0)
	}
	if s.index >= n-1 {
		return SelectAt(n - 1)
	}
	return SelectAt(s.index + 1)
}

// State is the interactive session state.
type State struct {
	Input     string
	Results   []history.History
	Selection Selection
}

// NewState seeds the input from query tokens joined by single spaces.
func NewState(query []string) State {
	return State{Input: strings.Join(query, " ")}
}

// SelectedCommand returns the highlighted row's command.
func (s State) SelectedCommand() (string, bool) {
	i, ok := s.Selection.Index()
	if !ok || i >= len(s.Results) {
		return "", false
	}
	return s.Results[i].Command, true
}

// WithResults replaces the results and resets the selection.
func (s State) WithResults(results []history.History) State {
	s.Results = results
	s.Selection = resetSelection(len(results))
	return s
}

// Style is the layout density policy.
type Style int

const (
	// StyleAuto picks compact below compactHeight rows, full otherwise.
	StyleAuto Style = iota
	// StyleCompact always uses the compact layout.
	StyleCompact
	// StyleFull always uses the bordered layout.
	StyleFull
)

var styleNames = map[string]Style{
	"auto":    StyleAuto,
	"compact": StyleCompact,
	"full":    StyleFull,
}

// ParseStyle maps a config value to a Style.
func ParseStyle(s string) (Style, error) {
	if style, ok := styleNames[strings.ToLower(s)]; ok {
		return style, nil
	}
	return StyleAuto, fmt.Errorf("unknown style %q (valid: auto, compact, full)", s)
}

func (s Style) String() string {
	for name, style := range styleNames {
		if style == s {
			return name
		}
	}
	return fmt.Sprintf("Style(%d)", int(s))
}
