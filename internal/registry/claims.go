// Package registry holds the in-memory claim and ticket-link registries.
//
// Both registries are first-write-wins maps keyed by order id: an entry,
// once created, is never overwritten or removed for the lifetime of the
// process. All methods are safe for concurrent use; each check-and-set is a
// single critical section.
package registry

import (
	"sort"
	"sync"

	"github.com/tbourn/go-booster-bot/internal/domain"
)

// Claims maps order ids to the worker who claimed them.
type Claims struct {
	mu sync.RWMutex
	// +checklocks:mu
	byOrder map[domain.OrderID]domain.ClaimRecord
}

// NewClaims returns an empty claim registry.
func NewClaims() *Claims {
	return &Claims{byOrder: make(map[domain.OrderID]domain.ClaimRecord)}
}

// TryClaim records claimantID as the owner of orderID if it is unclaimed.
//
// It returns the record now in force and whether this call created it. When
// claimed is false the returned record is the existing claim and nothing was
// changed.
func (r *Claims) TryClaim(orderID domain.OrderID, claimantID string, at uint64) (rec domain.ClaimRecord, claimed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byOrder[orderID]; ok {
		return existing, false
	}
	rec = domain.ClaimRecord{OrderID: orderID, ClaimantID: claimantID, ClaimedAt: at}
	r.byOrder[orderID] = rec
	return rec, true
}

// Restamp moves the position of an existing claim to at. It only applies
// when claimantID still owns orderID and reports whether the record changed.
// The owner itself never changes.
func (r *Claims) Restamp(orderID domain.OrderID, claimantID string, at uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byOrder[orderID]
	if !ok || rec.ClaimantID != claimantID || rec.ClaimedAt == at {
		return false
	}
	rec.ClaimedAt = at
	r.byOrder[orderID] = rec
	return true
}

// ClaimantOf returns the claimant of orderID, if any.
func (r *Claims) ClaimantOf(orderID domain.OrderID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byOrder[orderID]
	return rec.ClaimantID, ok
}

// Get returns the full claim record for orderID.
func (r *Claims) Get(orderID domain.OrderID) (domain.ClaimRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byOrder[orderID]
	return rec, ok
}

// List returns a snapshot of all claims ordered by ClaimedAt, then order id.
func (r *Claims) List() []domain.ClaimRecord {
	r.mu.RLock()
	out := make([]domain.ClaimRecord, 0, len(r.byOrder))
	for _, rec := range r.byOrder {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ClaimedAt != out[j].ClaimedAt {
			return out[i].ClaimedAt < out[j].ClaimedAt
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out
}

// Count returns the number of claimed orders.
func (r *Claims) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOrder)
}
