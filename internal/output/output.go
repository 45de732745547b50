// Package output prints batch search results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/rewind/internal/history"
	"github.com/chazuruo/rewind/internal/humantime"
)

// Format represents the structured output format.
type Format string

const (
	// FormatText is the line-oriented default.
	FormatText Format = ""
	// FormatJSON dumps records as a JSON array.
	FormatJSON Format = "json"
	// FormatYAML dumps records as a YAML sequence.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (valid: text, json, yaml)", s)
	}
}

// Options selects how records are printed.
type Options struct {
	// Human prints an aligned table with readable times.
	Human bool
	// CmdOnly prints only command text and wins over Human.
	CmdOnly bool
	Format  Format
}

const humanTimeLayout = "2006-01-02 15:04:05"

// Print writes records to w.
func Print(w io.Writer, records []history.History, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return printJSON(w, records)
	case FormatYAML:
		return printYAML(w, records)
	}

	switch {
	case opts.CmdOnly:
		for _, h := range records {
			if _, err := fmt.Fprintln(w, h.Command); err != nil {
				return err
			}
		}
	case opts.Human:
		tbl := table.New("Time", "Command", "Duration").WithWriter(w)
		for _, h := range records {
			tbl.AddRow(
				h.Timestamp.Local().Format(humanTimeLayout),
				strings.TrimSpace(h.Command),
				humantime.Duration(h.Duration),
			)
		}
		tbl.Print()
	default:
		for _, h := range records {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%d\n", h.Timestamp.UnixNano(), strings.TrimSpace(h.Command), h.Duration); err != nil {
				return err
			}
		}
	}
	return nil
}

func printJSON(w io.Writer, records []history.History) error {
	if records == nil {
		records = []history.History{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func printYAML(w io.Writer, records []history.History) error {
	if records == nil {
		records = []history.History{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
