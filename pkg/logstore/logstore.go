package logstore

import "context"

// LogLine is one raw entry returned by a log store, paired with the
// backend's nanosecond receipt timestamp.
type LogLine struct {
	Timestamp string
	Line      string
}

// QueryRangeOptions bound a range query. Start and End are backend time
// tokens: the literal "now" or a unix-seconds string.
type QueryRangeOptions struct {
	Start string
	End   string
	Limit int
}

// QueryRangeResult holds the raw lines returned by a range query together
// with the resolved [start, end] window in unix seconds.
type QueryRangeResult struct {
	Entries   []LogLine
	Timerange [2]int64
}

type LogStore interface {
	QueryRange(ctx context.Context, query string, opts QueryRangeOptions) (*QueryRangeResult, error)
}
