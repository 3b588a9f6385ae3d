package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestOrderID_Helpers(t *testing.T) {
	var zero OrderID
	if !zero.IsZero() {
		t.Fatalf("zero OrderID should report IsZero")
	}
	id := OrderID("TD-ABC123")
	if id.IsZero() {
		t.Fatalf("non-empty OrderID reported IsZero")
	}
	if id.String() != "TD-ABC123" {
		t.Fatalf("String() = %q", id.String())
	}
}

func TestLogEntry_TableName(t *testing.T) {
	if (LogEntry{}).TableName() != "event_log" {
		t.Fatalf("LogEntry.TableName() = %q; want %q", (LogEntry{}).TableName(), "event_log")
	}
}

func TestLogEntry_MigrateAndMonotonicSeq(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&LogEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasTable(&LogEntry{}) {
		t.Fatalf("expected event_log table")
	}

	var prev uint64
	for i, line := range []string{"[CLAIM] order=TD-001 booster=42", "[LINK] order=TD-001 channel=900 customer=7"} {
		e := &LogEntry{Line: line, CreatedAt: time.Now().UTC()}
		if err := db.Create(e).Error; err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if e.Seq <= prev {
			t.Fatalf("seq not increasing: prev=%d got=%d", prev, e.Seq)
		}
		prev = e.Seq
	}
}
