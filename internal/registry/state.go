package registry

import (
	"github.com/tbourn/go-booster-bot/internal/domain"
)

// State is the explicitly owned container for all workflow state: both
// registries plus the per-order guard that makes multi-step transitions
// (claim then check link, link then check claim) indivisible.
type State struct {
	Claims *Claims
	Links  *Links

	guard *KeyedMutex
}

// NewState returns an empty state container.
func NewState() *State {
	return FromRegistries(NewClaims(), NewLinks())
}

// FromRegistries wraps existing (typically recovered) registries.
func FromRegistries(claims *Claims, links *Links) *State {
	if claims == nil {
		claims = NewClaims()
	}
	if links == nil {
		links = NewLinks()
	}
	return &State{Claims: claims, Links: links, guard: NewKeyedMutex()}
}

// Lock serializes all transitions touching orderID. Callers must invoke the
// returned function exactly once.
func (s *State) Lock(orderID domain.OrderID) (unlock func()) {
	return s.guard.Lock(orderID.String())
}

// OrderStatus is the combined view of one order across both registries.
type OrderStatus struct {
	OrderID domain.OrderID      `json:"order_id"`
	Claim   *domain.ClaimRecord `json:"claim,omitempty"`
	Link    *domain.TicketLink  `json:"link,omitempty"`
}

// Status returns what is known about orderID; known is false when neither
// registry has an entry.
func (s *State) Status(orderID domain.OrderID) (st OrderStatus, known bool) {
	st.OrderID = orderID
	if rec, ok := s.Claims.Get(orderID); ok {
		st.Claim = &rec
	}
	if link, ok := s.Links.LinkOf(orderID); ok {
		st.Link = &link
	}
	return st, st.Claim != nil || st.Link != nil
}

// Snapshot is a deterministic, comparable dump of the registries.
type Snapshot struct {
	Claims []domain.ClaimRecord `json:"claims"`
	Links  []domain.TicketLink  `json:"links"`
}

// Snapshot returns both registries sorted for stable comparison/printing.
func (s *State) Snapshot() Snapshot {
	links := s.Links.List()
	sortLinks(links)
	return Snapshot{Claims: s.Claims.List(), Links: links}
}
