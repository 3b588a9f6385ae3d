package recovery

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-booster-bot/internal/eventlog"
)

func newEngine(lines ...string) (*Engine, *eventlog.MemoryStore) {
	store := eventlog.NewMemoryStore(lines...)
	return New(eventlog.New(store, 100), zerolog.Nop()), store
}

func TestRecover_ClaimThenLinkScenario(t *testing.T) {
	e, _ := newEngine(
		"[CLAIM] order=TD-001 booster=42",
		"[LINK] order=TD-001 channel=900 customer=7",
	)
	state, st := e.Recover(context.Background())

	if who, ok := state.Claims.ClaimantOf("TD-001"); !ok || who != "42" {
		t.Fatalf("claimantOf = %q, %v", who, ok)
	}
	link, ok := state.Links.LinkOf("TD-001")
	if !ok || link.TicketChannelID != "900" || link.CustomerID != "7" {
		t.Fatalf("linkOf = %+v, %v", link, ok)
	}
	if id, ok := state.Links.OrderForChannel("900"); !ok || id != "TD-001" {
		t.Fatalf("channel 900 not bound: %s %v", id, ok)
	}
	if st.Entries != 2 || st.Applied != 2 || st.Skipped != 0 || st.ColdStart {
		t.Fatalf("stats = %+v", st)
	}
}

func TestRecover_SkipsMalformedAndNotes(t *testing.T) {
	e, _ := newEngine(
		"[CLAIM] booster=42",
		"hello world",
		"[JOB] order=TD-002 message=55",
		"[CLAIM] order=TD-002 booster=9",
		"[LINK] order=TD-002 channel=901",
	)
	state, st := e.Recover(context.Background())

	if who, _ := state.Claims.ClaimantOf("TD-002"); who != "9" {
		t.Fatalf("valid claim after malformed line not applied: %q", who)
	}
	if state.Links.Count() != 0 {
		t.Fatalf("LINK without customer must be skipped")
	}
	if st.Skipped != 4 || st.Applied != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestFold_FirstWriteWins(t *testing.T) {
	entries := []eventlog.Entry{
		{Seq: 30, Line: "[LINK] order=TD-001 channel=later customer=2"},
		{Seq: 10, Line: "[LINK] order=TD-001 channel=earlier customer=1"},
		{Seq: 20, Line: "[CLAIM] order=TD-001 booster=first"},
		{Seq: 40, Line: "[CLAIM] order=td-001 booster=second"},
	}
	state, st := Fold(entries)

	link, _ := state.Links.LinkOf("TD-001")
	if link.TicketChannelID != "earlier" {
		t.Fatalf("link bound to %q; want earlier", link.TicketChannelID)
	}
	rec, _ := state.Claims.Get("TD-001")
	if rec.ClaimantID != "first" || rec.ClaimedAt != 20 {
		t.Fatalf("claim = %+v", rec)
	}
	if st.Duplicates != 2 {
		t.Fatalf("duplicates = %d", st.Duplicates)
	}
	if entries[0].Seq != 30 {
		t.Fatalf("Fold reordered its input")
	}
}

func TestFold_Deterministic(t *testing.T) {
	entries := []eventlog.Entry{
		{Seq: 1, Line: "[CLAIM] order=TD-AAA booster=1"},
		{Seq: 2, Line: "[LINK] order=TD-BBB channel=c1 customer=5"},
		{Seq: 3, Line: "[LINK] order=TD-AAA channel=c2 customer=6"},
		{Seq: 4, Line: "[CLAIM] order=TD-BBB booster=2"},
		{Seq: 5, Line: "[LINK] order=TD-CCC channel=c1 customer=7"},
	}
	a, _ := Fold(entries)
	b, _ := Fold(entries)
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Fatalf("replay not deterministic:\n%+v\n%+v", a.Snapshot(), b.Snapshot())
	}
	if _, ok := a.Links.LinkOf("TD-CCC"); ok {
		t.Fatalf("channel c1 already bound to TD-BBB; TD-CCC must stay unlinked")
	}
}

func TestRecover_MatchesLiveState(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine()
	live, _ := Fold(nil)

	log := eventlog.New(store, 100)
	steps := []eventlog.Record{
		eventlog.Claim("TD-001", "42"),
		eventlog.Link("TD-002", "900", "7"),
		eventlog.Claim("TD-002", "43"),
		eventlog.Link("TD-001", "901", "8"),
	}
	for _, r := range steps {
		h, err := log.Append(ctx, r)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		switch r.Tag {
		case eventlog.TagClaim:
			live.Claims.TryClaim(r.OrderID, r.ClaimantID, h.Seq)
		case eventlog.TagLink:
			live.Links.TryLink(r.OrderID, r.TicketChannelID, r.CustomerID)
		}
	}

	recovered, _ := e.Recover(ctx)
	if !reflect.DeepEqual(live.Snapshot(), recovered.Snapshot()) {
		t.Fatalf("recovered state differs from live:\nlive=%+v\nrecovered=%+v", live.Snapshot(), recovered.Snapshot())
	}
}

func TestRecover_UnreachableLogColdStart(t *testing.T) {
	e, store := newEngine("[CLAIM] order=TD-001 booster=42")
	store.RecentErr = errors.New("unreachable")

	before := testutil.ToFloat64(recoveries.WithLabelValues("cold"))
	state, st := e.Recover(context.Background())

	if !st.ColdStart {
		t.Fatalf("expected cold start")
	}
	if state.Claims.Count() != 0 || state.Links.Count() != 0 {
		t.Fatalf("cold start must yield empty registries")
	}
	if got := testutil.ToFloat64(recoveries.WithLabelValues("cold")) - before; got != 1 {
		t.Fatalf("cold counter delta = %v", got)
	}
}

func TestRecover_WindowBoundsReplay(t *testing.T) {
	store := eventlog.NewMemoryStore(
		"[CLAIM] order=TD-OLD booster=1",
		"[CLAIM] order=TD-MID booster=2",
		"[CLAIM] order=TD-NEW booster=3",
	)
	e := New(eventlog.New(store, 2), zerolog.Nop())
	state, st := e.Recover(context.Background())

	if _, ok := state.Claims.ClaimantOf("TD-OLD"); ok {
		t.Fatalf("entry outside the window was replayed")
	}
	if state.Claims.Count() != 2 || st.Window != 2 {
		t.Fatalf("claims=%d stats=%+v", state.Claims.Count(), st)
	}
}
