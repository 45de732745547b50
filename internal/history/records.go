package history

import (
	"time"

	"github.com/google/uuid"
)

// UnknownCwd is stored for imported commands whose directory was not recorded.
const UnknownCwd = "unknown"

// RecordOptions describes the provenance stamped onto imported records.
type RecordOptions struct {
	Session  string
	Hostname string
	// Now anchors lines without a timestamp. Defaults to time.Now.
	Now func() time.Time
}

// ToRecords converts imported lines into history records. Every record in one
// call shares a session id. Lines without a timestamp are spaced one
// millisecond apart, ending at Now, so their file order survives.
func ToRecords(lines []HistoryLine, opts RecordOptions) []History {
	if opts.Session == "" {
		opts.Session = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now().UTC()

	records := make([]History, 0, len(lines))
	for i, line := range lines {
		ts := line.Timestamp
		if ts.IsZero() {
			ts = now.Add(-time.Duration(len(lines)-i) * time.Millisecond)
		}
		records = append(records, History{
			ID:        uuid.NewString(),
			Timestamp: ts.UTC(),
			Duration:  line.Duration,
			Exit:      0,
			Command:   line.Command,
			Cwd:       UnknownCwd,
			Session:   opts.Session,
			Hostname:  opts.Hostname,
		})
	}
	return records
}
