package sink

import (
	"investor-lab/domain/event"
	"sync"
	"time"
)

// Change is one entry of the change history.
type Change struct {
	Kind       event.ChangeKind `json:"kind"`
	InvestorID string           `json:"investorId"`
	Name       string           `json:"name"`
	Count      int              `json:"count"`
	At         time.Time        `json:"at"`
}

// HistorySink keeps the most recent changes in memory, oldest first.
type HistorySink struct {
	mu       sync.RWMutex
	capacity int
	changes  []Change
}

func NewHistorySink(capacity int) *HistorySink {
	if capacity <= 0 {
		capacity = 1
	}
	return &HistorySink{capacity: capacity}
}

func (h *HistorySink) Consume(e event.InvestorsChanged) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, fromEvent(e))
	if overflow := len(h.changes) - h.capacity; overflow > 0 {
		h.changes = append([]Change(nil), h.changes[overflow:]...)
	}
}

// Recent returns a copy of the retained changes.
func (h *HistorySink) Recent() []Change {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Change{}, h.changes...)
}

func fromEvent(e event.InvestorsChanged) Change {
	return Change{
		Kind:       e.Kind,
		InvestorID: e.Investor.ID,
		Name:       e.Investor.Name,
		Count:      len(e.Investors),
		At:         e.At,
	}
}
