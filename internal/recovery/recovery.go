// Package recovery rebuilds the claim and link registries by folding the
// event log at startup.
package recovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-booster-bot/internal/eventlog"
	"github.com/tbourn/go-booster-bot/internal/registry"
)

// Reader is the subset of the event log recovery needs.
type Reader interface {
	ReadAll(ctx context.Context) ([]eventlog.Entry, error)
	Window() int
}

// Stats summarizes one replay.
type Stats struct {
	Entries    int           `json:"entries"`
	Applied    int           `json:"applied"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	Window     int           `json:"window"`
	ColdStart  bool          `json:"cold_start"`
	Took       time.Duration `json:"took"`
}

// Engine replays a log into fresh registries.
type Engine struct {
	Log    Reader
	Logger zerolog.Logger
}

// New returns an Engine reading from log.
func New(log Reader, logger zerolog.Logger) *Engine {
	return &Engine{Log: log, Logger: logger}
}

// Recover reads the replay window and folds it into a new State.
//
// An unreadable log is not an error: the result is an empty state with
// Stats.ColdStart set, so the process can still start.
func (e *Engine) Recover(ctx context.Context) (*registry.State, Stats) {
	tr := otel.Tracer("recovery")
	ctx, span := tr.Start(ctx, "Recover", trace.WithAttributes(
		attribute.Int("recovery.window", e.Log.Window()),
	))
	defer span.End()

	start := time.Now()
	entries, err := e.Log.ReadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "log unreachable")
		e.Logger.Warn().Err(err).Msg("event log unreachable; starting with empty registries")
		st := Stats{Window: e.Log.Window(), ColdStart: true, Took: time.Since(start)}
		recoveries.WithLabelValues("cold").Inc()
		return registry.NewState(), st
	}

	state, st := Fold(entries)
	st.Window = e.Log.Window()
	st.Took = time.Since(start)

	span.SetAttributes(
		attribute.Int("recovery.entries", st.Entries),
		attribute.Int("recovery.applied", st.Applied),
		attribute.Int("recovery.skipped", st.Skipped),
	)
	recoveries.WithLabelValues("ok").Inc()
	replayedEntries.Add(float64(st.Entries))

	ev := e.Logger.Info()
	if st.Entries >= st.Window {
		// Older entries may exist beyond the window and were not replayed.
		ev = e.Logger.Warn().Bool("window_full", true)
	}
	ev.Int("entries", st.Entries).
		Int("applied", st.Applied).
		Int("skipped", st.Skipped).
		Int("duplicates", st.Duplicates).
		Int("claims", state.Claims.Count()).
		Int("links", state.Links.Count()).
		Dur("took", st.Took).
		Msg("state recovered")
	return state, st
}

// Fold applies entries in ascending Seq order with first-write-wins per
// order id. Lines that do not parse as CLAIM or LINK are skipped. The input
// slice is not modified.
func Fold(entries []eventlog.Entry) (*registry.State, Stats) {
	sorted := make([]eventlog.Entry, len(entries))
	copy(sorted, entries)
	eventlog.SortEntries(sorted)

	state := registry.NewState()
	st := Stats{Entries: len(sorted)}
	for _, en := range sorted {
		rec, err := eventlog.Parse(en.Line)
		if err != nil {
			st.Skipped++
			continue
		}
		var applied bool
		switch rec.Tag {
		case eventlog.TagClaim:
			_, applied = state.Claims.TryClaim(rec.OrderID, rec.ClaimantID, en.Seq)
		case eventlog.TagLink:
			_, applied = state.Links.TryLink(rec.OrderID, rec.TicketChannelID, rec.CustomerID)
		}
		if applied {
			st.Applied++
		} else {
			st.Duplicates++
		}
	}
	return state, st
}
