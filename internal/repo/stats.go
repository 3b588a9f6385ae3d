// Package repo implements the SQLite event-log substrate, backed by GORM.
// This file provides aggregate queries over the event log used by the
// status API.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/eventlog"
)

// LogStats is an aggregate view of the event_log table.
type LogStats struct {
	Total    int64            `json:"total"`
	ByTag    map[string]int64 `json:"by_tag"`
	FirstSeq uint64           `json:"first_seq"`
	LastSeq  uint64           `json:"last_seq"`
	Oldest   *time.Time       `json:"oldest,omitempty"`
	Newest   *time.Time       `json:"newest,omitempty"`
}

var statTags = []eventlog.Tag{
	eventlog.TagClaim,
	eventlog.TagLink,
	eventlog.TagJob,
	eventlog.TagInspect,
}

// EventLogStats counts rows overall and per known tag, and reports the
// first/last sequence and timestamps. An empty table yields zero counts and
// nil timestamps.
func EventLogStats(ctx context.Context, db *gorm.DB) (LogStats, error) {
	st := LogStats{ByTag: make(map[string]int64, len(statTags))}
	q := db.WithContext(ctx).Model(&domain.LogEntry{})

	if err := q.Count(&st.Total).Error; err != nil {
		return LogStats{}, err
	}
	if st.Total == 0 {
		return st, nil
	}

	for _, tag := range statTags {
		var n int64
		err := db.WithContext(ctx).Model(&domain.LogEntry{}).
			Where("line LIKE ?", "["+string(tag)+"]%").
			Count(&n).Error
		if err != nil {
			return LogStats{}, err
		}
		st.ByTag[string(tag)] = n
	}

	// Read edge rows instead of MIN()/MAX() so timestamps scan as time.Time.
	var first, last domain.LogEntry
	if err := db.WithContext(ctx).Order("seq ASC").Limit(1).Find(&first).Error; err != nil {
		return LogStats{}, err
	}
	if err := db.WithContext(ctx).Order("seq DESC").Limit(1).Find(&last).Error; err != nil {
		return LogStats{}, err
	}
	st.FirstSeq, st.LastSeq = first.Seq, last.Seq
	st.Oldest, st.Newest = &first.CreatedAt, &last.CreatedAt
	return st, nil
}

// Stats reports aggregates for the store's table.
func (s *LogStore) Stats(ctx context.Context) (LogStats, error) {
	return EventLogStats(ctx, s.DB)
}
