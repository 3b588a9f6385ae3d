package eventlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-booster-bot/internal/chat/chattest"
)

func TestLog_AppendAndReadAll_Ordered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l := New(store, 10)

	h1, err := l.Append(ctx, Claim("TD-001", "42"))
	if err != nil {
		t.Fatalf("append claim: %v", err)
	}
	h2, err := l.Append(ctx, Link("TD-001", "900", "7"))
	if err != nil {
		t.Fatalf("append link: %v", err)
	}
	if h2.Seq <= h1.Seq {
		t.Fatalf("handles not monotonic: %d then %d", h1.Seq, h2.Seq)
	}

	entries, err := l.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 || entries[0].Line != "[CLAIM] order=TD-001 booster=42" || entries[1].Seq != h2.Seq {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLog_Append_RejectsInvalidRecord(t *testing.T) {
	store := NewMemoryStore()
	l := New(store, 0)
	if _, err := l.Append(context.Background(), Record{Tag: TagClaim, OrderID: "TD-001"}); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
	if len(store.Lines()) != 0 {
		t.Fatalf("invalid record reached the store")
	}
	if l.Window() != DefaultWindow {
		t.Fatalf("Window() = %d; want default", l.Window())
	}
}

func TestLog_Append_StoreFailureWrapped(t *testing.T) {
	boom := errors.New("boom")
	store := NewMemoryStore()
	store.AppendErr = boom
	l := New(store, 5)
	if _, err := l.Append(context.Background(), Claim("TD-001", "1")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLog_ReadAll_WindowKeepsNewest(t *testing.T) {
	var lines []string
	for i := 1; i <= 8; i++ {
		lines = append(lines, fmt.Sprintf("[CLAIM] order=TD-%03d booster=%d", i, i))
	}
	l := New(NewMemoryStore(lines...), 3)
	entries, err := l.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d; want 3", len(entries))
	}
	if entries[0].Line != lines[5] || entries[2].Line != lines[7] {
		t.Fatalf("window not the newest three, oldest first: %+v", entries)
	}
}

func TestLog_Note(t *testing.T) {
	store := NewMemoryStore()
	l := New(store, 5)
	if _, err := l.Note(context.Background(), TagJob, Field{"order", "TD-001"}, Field{"message", "55"}); err != nil {
		t.Fatalf("Note: %v", err)
	}
	if got := store.Lines(); len(got) != 1 || got[0] != "[JOB] order=TD-001 message=55" {
		t.Fatalf("lines = %v", got)
	}
}

func TestChannelStore_AppendAndRecent_FiltersForeignAuthors(t *testing.T) {
	ctx := context.Background()
	client := chattest.New("bot")
	client.Seed("log", "intruder", "[CLAIM] order=TD-666 booster=1")
	store := NewChannelStore(client, "log", "bot")
	l := New(store, 50)

	if _, err := l.Append(ctx, Claim("TD-001", "42")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := l.Append(ctx, Link("TD-001", "900", "7")); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := l.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only bot-authored entries, got %+v", entries)
	}
	if entries[0].Seq >= entries[1].Seq || entries[0].Line != "[CLAIM] order=TD-001 booster=42" {
		t.Fatalf("entries not oldest-first: %+v", entries)
	}
	if len(client.SentTo("log")) != 2 {
		t.Fatalf("expected two posts to the log channel")
	}
}

func TestChannelStore_HistoryError(t *testing.T) {
	client := chattest.New("bot")
	client.HistoryErr = errors.New("unreachable")
	l := New(NewChannelStore(client, "log", ""), 10)
	if _, err := l.ReadAll(context.Background()); err == nil {
		t.Fatalf("expected error from unreachable channel")
	}
}
