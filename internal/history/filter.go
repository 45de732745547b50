package history

import (
	"os"
	"time"

	"github.com/chazuruo/rewind/internal/dateparse"
)

// Predicate reports whether a record should be kept.
type Predicate func(History) bool

// FilterOptions holds the batch search filters. Unset fields do not filter.
type FilterOptions struct {
	Exit        *int64
	ExcludeExit *int64
	Cwd         string
	ExcludeCwd  string
	// Before and After are natural-language time expressions.
	Before string
	After  string
}

// FilterEnv supplies the clock and working directory predicates resolve against.
type FilterEnv struct {
	Now   func() time.Time
	Getwd func() (string, error)
}

// DefaultFilterEnv uses the wall clock and the process working directory.
func DefaultFilterEnv() FilterEnv {
	return FilterEnv{Now: time.Now, Getwd: os.Getwd}
}

// Predicates builds the predicate chain for opts. A cwd of "." resolves to the
// working directory at call time. An unparseable Before or After yields a
// predicate that rejects every record.
func (o FilterOptions) Predicates(env FilterEnv) ([]Predicate, error) {
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.Getwd == nil {
		env.Getwd = os.Getwd
	}

	var preds []Predicate

	if o.Exit != nil {
		want := *o.Exit
		preds = append(preds, func(h History) bool { return h.Exit == want })
	}

	if o.ExcludeExit != nil {
		reject := *o.ExcludeExit
		preds = append(preds, func(h History) bool { return h.Exit != reject })
	}

	if o.ExcludeCwd != "" {
		reject := o.ExcludeCwd
		preds = append(preds, func(h History) bool { return h.Cwd != reject })
	}

	if o.Cwd != "" {
		want := o.Cwd
		if want == "." {
			wd, err := env.Getwd()
			if err != nil {
				return nil, err
			}
			want = wd
		}
		preds = append(preds, func(h History) bool { return h.Cwd == want })
	}

	now := env.Now()

	if o.Before != "" {
		preds = append(preds, timePredicate(o.Before, now, func(ts, bound time.Time) bool {
			return !ts.After(bound)
		}))
	}

	if o.After != "" {
		preds = append(preds, timePredicate(o.After, now, func(ts, bound time.Time) bool {
			return !ts.Before(bound)
		}))
	}

	return preds, nil
}

func timePredicate(expr string, now time.Time, keep func(ts, bound time.Time) bool) Predicate {
	bound, err := dateparse.Parse(expr, now, dateparse.UK)
	if err != nil {
		return func(History) bool { return false }
	}
	return func(h History) bool { return keep(h.Timestamp, bound) }
}

// Filter keeps the records every predicate accepts, preserving order.
func Filter(records []History, preds []Predicate) []History {
	if len(preds) == 0 {
		return records
	}

	out := make([]History, 0, len(records))
next:
	for _, h := range records {
		for _, p := range preds {
			if !p(h) {
				continue next
			}
		}
		out = append(out, h)
	}
	return out
}
