package eventlog

import (
	"context"
	"fmt"
	"sort"
)

// Entry is one stored log line together with its position.
//
// Seq is the substrate's monotonic append sequence; replay orders entries by
// Seq only, never by wall time.
type Entry struct {
	Seq      uint64
	ID       string
	AuthorID string
	Line     string
}

// Handle identifies an appended entry.
type Handle struct {
	Seq uint64
	ID  string
}

// Store is the storage substrate behind the log. Implementations must be
// safe for concurrent use.
type Store interface {
	// Append persists line and returns the stored entry.
	Append(ctx context.Context, line string) (Entry, error)
	// Recent returns at most limit of the most recently appended entries,
	// in any order.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// DefaultWindow is the replay window used when none is configured.
const DefaultWindow = 500

// Log is the append-only event log with an explicit, bounded replay window.
//
// The window is a known limitation: entries older than the last Window()
// appends are not replayed and their claims/links are forgotten on restart.
type Log struct {
	store  Store
	window int
}

// New wraps store with the given replay window (<= 0 selects DefaultWindow).
func New(store Store, window int) *Log {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Log{store: store, window: window}
}

// Window returns the replay window.
func (l *Log) Window() int { return l.window }

// Append serializes rec and appends it. Invalid records are rejected before
// touching the store.
func (l *Log) Append(ctx context.Context, rec Record) (Handle, error) {
	if err := rec.Validate(); err != nil {
		return Handle{}, err
	}
	return l.AppendLine(ctx, rec.String())
}

// Note appends an informational line that recovery ignores.
func (l *Log) Note(ctx context.Context, tag Tag, fields ...Field) (Handle, error) {
	return l.AppendLine(ctx, FormatLine(tag, fields...))
}

// AppendLine appends a pre-formatted line.
func (l *Log) AppendLine(ctx context.Context, line string) (Handle, error) {
	e, err := l.store.Append(ctx, line)
	if err != nil {
		return Handle{}, fmt.Errorf("eventlog: append: %w", err)
	}
	return Handle{Seq: e.Seq, ID: e.ID}, nil
}

// ReadAll returns the entries inside the replay window, oldest first.
func (l *Log) ReadAll(ctx context.Context) ([]Entry, error) {
	entries, err := l.store.Recent(ctx, l.window)
	if err != nil {
		return nil, fmt.Errorf("eventlog: read: %w", err)
	}
	SortEntries(entries)
	if len(entries) > l.window {
		entries = entries[len(entries)-l.window:]
	}
	return entries, nil
}

// SortEntries orders entries by ascending Seq. Ties keep their input order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
}
