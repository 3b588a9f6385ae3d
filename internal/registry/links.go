package registry

import (
	"sort"
	"sync"

	"github.com/tbourn/go-booster-bot/internal/domain"
)

// Links maps order ids to the ticket channel (and customer) that first
// referenced them. A ticket channel is also bound to at most one order.
type Links struct {
	mu sync.RWMutex
	// +checklocks:mu
	byOrder map[domain.OrderID]domain.TicketLink
	// +checklocks:mu
	byChannel map[string]domain.OrderID
	// +checklocks:mu
	order []domain.OrderID // insertion order, for stable listing
}

// NewLinks returns an empty link registry.
func NewLinks() *Links {
	return &Links{
		byOrder:   make(map[domain.OrderID]domain.TicketLink),
		byChannel: make(map[string]domain.OrderID),
	}
}

// TryLink binds orderID to ticketChannelID/customerID unless either the
// order or the channel is already bound.
//
// It returns the link in force for orderID (the new one when linked is
// true). When the channel is already bound to a different order and orderID
// itself is unlinked, the returned link is the zero value and linked is false.
func (r *Links) TryLink(orderID domain.OrderID, ticketChannelID, customerID string) (link domain.TicketLink, linked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byOrder[orderID]; ok {
		return existing, false
	}
	if _, bound := r.byChannel[ticketChannelID]; bound {
		return domain.TicketLink{}, false
	}
	link = domain.TicketLink{OrderID: orderID, TicketChannelID: ticketChannelID, CustomerID: customerID}
	r.byOrder[orderID] = link
	r.byChannel[ticketChannelID] = orderID
	r.order = append(r.order, orderID)
	return link, true
}

// LinkOf returns the ticket link for orderID, if any.
func (r *Links) LinkOf(orderID domain.OrderID) (domain.TicketLink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.byOrder[orderID]
	return link, ok
}

// OrderForChannel returns the order a ticket channel is bound to.
func (r *Links) OrderForChannel(ticketChannelID string) (domain.OrderID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byChannel[ticketChannelID]
	return id, ok
}

// List returns a snapshot of all links in the order they were created.
func (r *Links) List() []domain.TicketLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TicketLink, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byOrder[id])
	}
	return out
}

// Count returns the number of linked orders.
func (r *Links) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOrder)
}

// sortLinks orders links by order id; used where insertion order is not
// meaningful (e.g. comparisons).
func sortLinks(links []domain.TicketLink) {
	sort.Slice(links, func(i, j int) bool { return links[i].OrderID < links[j].OrderID })
}
