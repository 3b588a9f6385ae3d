// Package domain defines the core types of the claim/link workflow: the
// canonical order identifier, claim and ticket-link records, and the
// persistence model used when the event log is kept in SQLite.
package domain

import "time"

// OrderID is the canonical job identifier (e.g. "TD-8FJ2K1"). Values are
// always trimmed and uppercased; the zero value means "no order".
type OrderID string

// String implements fmt.Stringer.
func (id OrderID) String() string { return string(id) }

// IsZero reports whether id is empty.
func (id OrderID) IsZero() bool { return id == "" }

// ClaimRecord binds an order to the worker ("booster") who claimed it.
//
// ClaimedAt is a log position, not wall time: the sequence of the CLAIM
// entry in the event log. A live claim carries the interaction snowflake
// only until its CLAIM record is stored, or for good if that append fails.
type ClaimRecord struct {
	OrderID    OrderID `json:"order_id"`
	ClaimantID string  `json:"claimant_id"`
	ClaimedAt  uint64  `json:"claimed_at"`
}

// TicketLink binds an order to the customer support channel that first
// mentioned it, together with the customer who wrote that message.
type TicketLink struct {
	OrderID         OrderID `json:"order_id"`
	TicketChannelID string  `json:"ticket_channel_id"`
	CustomerID      string  `json:"customer_id"`
}

// LogEntry is a single serialized event-log line stored by the SQLite
// substrate. Seq is the monotonic append sequence used to order replay.
//
// Fields:
//   - Seq: autoincrement primary key, strictly increasing per append.
//   - Line: the serialized record (see eventlog.Record).
//   - AuthorID: identity of the writer (the bot user id when known).
//   - CreatedAt: wall time of the append; informational only.
type LogEntry struct {
	Seq       uint64    `json:"seq"        gorm:"primaryKey;autoIncrement"`
	Line      string    `json:"line"       gorm:"type:text;not null"`
	AuthorID  string    `json:"author_id"  gorm:"type:varchar(64);not null;default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for LogEntry.
func (LogEntry) TableName() string { return "event_log" }
