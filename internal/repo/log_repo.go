// Package repo implements the SQLite event-log substrate, backed by GORM.
// This file provides LogStore, an eventlog.Store over the event_log table.
package repo

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/eventlog"
)

// LogStore keeps event-log lines in SQLite. Seq is the row's autoincrement
// key, so it is strictly increasing across appends and restarts.
type LogStore struct {
	DB       *gorm.DB
	AuthorID string
}

// NewLogStore returns a store writing rows attributed to authorID.
func NewLogStore(db *gorm.DB, authorID string) *LogStore {
	return &LogStore{DB: db, AuthorID: authorID}
}

// Append inserts line as a new row.
func (s *LogStore) Append(ctx context.Context, line string) (eventlog.Entry, error) {
	row := &domain.LogEntry{
		Line:      line,
		AuthorID:  s.AuthorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return eventlog.Entry{}, err
	}
	return toEntry(*row), nil
}

// Recent returns up to limit of the newest rows, newest first.
func (s *LogStore) Recent(ctx context.Context, limit int) ([]eventlog.Entry, error) {
	var rows []domain.LogEntry
	q := s.DB.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]eventlog.Entry, len(rows))
	for i, r := range rows {
		out[i] = toEntry(r)
	}
	return out, nil
}

// ListEntriesPage returns rows ordered by Seq ascending.
func ListEntriesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.LogEntry, error) {
	var out []domain.LogEntry
	err := db.WithContext(ctx).
		Order("seq ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func toEntry(r domain.LogEntry) eventlog.Entry {
	return eventlog.Entry{
		Seq:      r.Seq,
		ID:       strconv.FormatUint(r.Seq, 10),
		AuthorID: r.AuthorID,
		Line:     r.Line,
	}
}
