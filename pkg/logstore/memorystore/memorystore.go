package memorystore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/stackport/activity-agent/internal/timeutil"
	"github.com/stackport/activity-agent/pkg/logstore"
)

// MemoryStore is an in-memory log store used in dev mode and tests. It
// honors the time range and limit of a query but does not evaluate the
// LogQL pipeline stages, so every stored line inside the window matches.
type MemoryStore struct {
	name string

	mu      sync.Mutex
	entries []logstore.LogLine
}

type Options struct {
	// Entries seeds the store, newest last.
	Entries []logstore.LogLine
}

func New(name string, options Options) (*MemoryStore, error) {
	store := &MemoryStore{
		name:    name,
		entries: append([]logstore.LogLine(nil), options.Entries...),
	}

	return store, nil
}

// Push appends one line with the given receipt time.
func (store *MemoryStore) Push(t time.Time, line string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.entries = append(store.entries, logstore.LogLine{
		Timestamp: strconv.FormatInt(t.UnixNano(), 10),
		Line:      line,
	})
}

func (store *MemoryStore) QueryRange(ctx context.Context, query string, opts logstore.QueryRangeOptions) (*logstore.QueryRangeResult, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := time.Now()
	start := timeutil.TokenToUnixSeconds(opts.Start, now)
	end := timeutil.TokenToUnixSeconds(opts.End, now)

	matched := make([]logstore.LogLine, 0)

	for _, entry := range store.entries {
		ns, err := strconv.ParseInt(entry.Timestamp, 10, 64)

		if err == nil {
			sec := ns / int64(time.Second)

			if sec < start || (end > 0 && sec > end) {
				continue
			}
		}

		matched = append(matched, entry)
	}

	if opts.Limit > 0 && len(matched) > opts.Limit {
		// keep the newest lines, matching the backend's backward direction
		matched = matched[len(matched)-opts.Limit:]
	}

	return &logstore.QueryRangeResult{
		Entries:   matched,
		Timerange: [2]int64{start, end},
	}, nil
}
