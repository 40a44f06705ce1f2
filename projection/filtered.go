// Package projection builds read-only views over the investor collection.
// Views never modify the collection they derive from.
package projection

import (
	"investor-lab/domain"
	"investor-lab/runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Filter keeps the investors whose name contains term, ignoring case and
// surrounding whitespace. A blank term returns investors as is.
func Filter(investors []domain.ExternalInvestor, term string) []domain.ExternalInvestor {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return investors
	}
	return lo.Filter(investors, func(item domain.ExternalInvestor, _ int) bool {
		return strings.Contains(strings.ToLower(item.Name), needle)
	})
}

// Source is what a FilteredView observes.
type Source interface {
	Subscribe(fn func([]domain.ExternalInvestor)) func()
	SubscribeFilter(fn func(string)) func()
}

// FilteredView combines the latest collection with the latest distinct
// filter term and recomputes once per change of either.
type FilteredView struct {
	publishMu      sync.Mutex
	mu             sync.Mutex
	investors      []domain.ExternalInvestor
	term           string
	ready          bool
	recomputations int
	visible        *runtime.Subject[[]domain.ExternalInvestor]
	unsubscribe    []func()
}

func NewFilteredView(source Source) *FilteredView {
	v := &FilteredView{visible: runtime.NewSubject[[]domain.ExternalInvestor](nil)}

	// Both subscriptions replay synchronously: the first one only primes the
	// view, the second one triggers the initial derivation.
	v.unsubscribe = append(v.unsubscribe, source.SubscribeFilter(func(term string) {
		v.recompute(func() { v.term = term })
	}))
	v.mu.Lock()
	v.ready = true
	v.mu.Unlock()
	v.unsubscribe = append(v.unsubscribe, source.Subscribe(func(investors []domain.ExternalInvestor) {
		v.recompute(func() { v.investors = investors })
	}))
	return v
}

// recompute applies set and publishes the new projection. publishMu keeps
// input changes and their publications in the same order.
func (v *FilteredView) recompute(set func()) {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	set()
	if !v.ready {
		v.mu.Unlock()
		return
	}
	visible := Filter(v.investors, v.term)
	v.recomputations++
	v.mu.Unlock()

	v.visible.Next(visible)
}

// Visible is the current projection.
func (v *FilteredView) Visible() []domain.ExternalInvestor {
	return v.visible.Value()
}

// Subscribe pushes the current projection, then every recomputed one.
func (v *FilteredView) Subscribe(fn func([]domain.ExternalInvestor)) func() {
	return v.visible.Subscribe(fn)
}

// Recomputations counts derivations since the view was built, the initial one included.
func (v *FilteredView) Recomputations() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.recomputations
}

// Close detaches the view from its source.
func (v *FilteredView) Close() {
	for _, unsubscribe := range v.unsubscribe {
		unsubscribe()
	}
}
