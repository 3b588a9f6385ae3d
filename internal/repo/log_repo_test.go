package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/eventlog"
)

func TestLogStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewLogStore(newTestDB(t, &domain.LogEntry{}), "bot")

	for i := 1; i <= 5; i++ {
		e, err := store.Append(ctx, fmt.Sprintf("[CLAIM] order=TD-%03d booster=%d", i, i))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if e.AuthorID != "bot" || e.ID == "" {
			t.Fatalf("entry = %+v", e)
		}
	}

	got, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d; want 3", len(got))
	}
	if got[0].Line != "[CLAIM] order=TD-005 booster=5" || got[0].Seq <= got[1].Seq {
		t.Fatalf("not newest first: %+v", got)
	}
}

func TestLogStore_RecoveryRoundTrip(t *testing.T) {
	ctx := context.Background()
	log := eventlog.New(NewLogStore(newTestDB(t, &domain.LogEntry{}), "bot"), 10)

	if _, err := log.Append(ctx, eventlog.Claim("TD-001", "42")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := log.Append(ctx, eventlog.Link("TD-001", "900", "7")); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := log.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 || entries[0].Line != "[CLAIM] order=TD-001 booster=42" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLogStore_Recent_NoTable(t *testing.T) {
	store := NewLogStore(newTestDB(t), "bot")
	if _, err := store.Recent(context.Background(), 10); err == nil {
		t.Fatalf("expected error due to missing table")
	}
}

func TestListEntriesPage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, &domain.LogEntry{})
	store := NewLogStore(db, "bot")
	for i := 0; i < 4; i++ {
		if _, err := store.Append(ctx, fmt.Sprintf("line %d", i)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	page, err := ListEntriesPage(ctx, db, 1, 2)
	if err != nil {
		t.Fatalf("ListEntriesPage: %v", err)
	}
	if len(page) != 2 || page[0].Line != "line 1" || page[1].Line != "line 2" {
		t.Fatalf("page = %+v", page)
	}
}
