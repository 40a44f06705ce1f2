package services

import (
	"fmt"
	"investor-lab/contract"
	"investor-lab/domain"
	"investor-lab/domain/event"
	errs "investor-lab/errors"
	"investor-lab/repositories"
	"investor-lab/runtime"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IInvestorService interface {
	Investors() []domain.ExternalInvestor
	Get(id string) (domain.ExternalInvestor, bool)
	Subscribe(fn func([]domain.ExternalInvestor)) func()
	SetFilterTerm(term string)
	FilterTerm() string
	SubscribeFilter(fn func(string)) func()
	Add(input domain.InvestorInput) (domain.ExternalInvestor, error)
	Update(id string, patch domain.InvestorPatch) (domain.ExternalInvestor, bool, error)
	Delete(id string) (bool, error)
}

// InvestorService owns the investor collection and mirrors it into the slot.
//
// Every mutation is write-through: the next collection is persisted first and
// only committed and published once the write succeeded. On a failed write the
// error wraps ErrPersistence and neither memory nor listeners change.
//
// Listeners run synchronously on the mutating goroutine, in mutation order,
// and must not call mutating methods of the same service.
type InvestorService struct {
	log        *slog.Logger
	repository repositories.IInvestorRepository
	locale     domain.Locale
	clock      func() time.Time
	newID      func() string

	mu        sync.Mutex
	investors *runtime.Subject[[]domain.ExternalInvestor]
	filter    *runtime.Subject[string]
	sinks     []contract.EventSink
}

// NewInvestorService loads the collection from repository. A missing or
// unreadable slot falls back to the seed records of locale, which are not
// written back until the first mutation. A nil clock means time.Now.
func NewInvestorService(
	log *slog.Logger,
	repository repositories.IInvestorRepository,
	locale domain.Locale,
	clock func() time.Time,
) *InvestorService {
	if clock == nil {
		clock = time.Now
	}
	s := &InvestorService{
		log:        log,
		repository: repository,
		locale:     locale,
		clock:      clock,
		newID:      uuid.NewString,
		filter:     runtime.NewDistinctSubject(""),
	}
	s.investors = runtime.NewSubject(s.load())
	return s
}

func (s *InvestorService) load() []domain.ExternalInvestor {
	investors, found, err := s.repository.Load()
	switch {
	case err != nil && found:
		s.log.Warn("Stored investors are unreadable, using seed data", "error", err)
	case err != nil:
		s.log.Error("Reading investors failed, using seed data", "error", err)
	case !found:
		s.log.Debug("No investors stored yet, using seed data")
	default:
		s.log.Debug("Investors loaded", "count", len(investors))
		return investors
	}
	return domain.SeedInvestors(s.locale, s.now(), s.newID)
}

// RegisterSinks adds sinks notified after every committed mutation.
func (s *InvestorService) RegisterSinks(sinks ...contract.EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sinks...)
}

// Investors returns a copy of the current collection, in insertion order.
func (s *InvestorService) Investors() []domain.ExternalInvestor {
	return slices.Clone(s.investors.Value())
}

func (s *InvestorService) Get(id string) (domain.ExternalInvestor, bool) {
	return lo.Find(s.investors.Value(), func(item domain.ExternalInvestor) bool {
		return item.ID == id
	})
}

// Subscribe pushes the current collection, then every committed one.
// The slices handed to fn are shared and must not be modified.
func (s *InvestorService) Subscribe(fn func([]domain.ExternalInvestor)) func() {
	return s.investors.Subscribe(fn)
}

func (s *InvestorService) SetFilterTerm(term string) {
	s.filter.Next(term)
}

func (s *InvestorService) FilterTerm() string {
	return s.filter.Value()
}

// SubscribeFilter pushes the current term, then every distinct new one.
func (s *InvestorService) SubscribeFilter(fn func(string)) func() {
	return s.filter.Subscribe(fn)
}

func (s *InvestorService) Add(input domain.InvestorInput) (domain.ExternalInvestor, error) {
	input = input.Normalize()
	if err := ValidateInvestor(InvestorRequest{Name: input.Name, Description: input.Description}); err != nil {
		return domain.ExternalInvestor{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	investor := domain.ExternalInvestor{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	next := append(slices.Clone(s.investors.Value()), investor)
	if err := s.commit(event.InvestorAdded, investor, next); err != nil {
		return domain.ExternalInvestor{}, err
	}
	return investor, nil
}

// Update merges patch into the investor with id. It reports false, and
// neither persists nor publishes, when no such investor exists.
func (s *InvestorService) Update(id string, patch domain.InvestorPatch) (domain.ExternalInvestor, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.investors.Value()
	previous, index, ok := lo.FindIndexOf(current, func(item domain.ExternalInvestor) bool {
		return item.ID == id
	})
	if !ok {
		return domain.ExternalInvestor{}, false, nil
	}

	updated := previous.Apply(patch)
	if err := ValidateInvestor(InvestorRequest{Name: updated.Name, Description: updated.Description}); err != nil {
		return domain.ExternalInvestor{}, true, err
	}
	updated.ID = previous.ID
	updated.CreatedAt = previous.CreatedAt
	updated.UpdatedAt = s.nowAfter(previous.UpdatedAt)

	next := slices.Clone(current)
	next[index] = updated
	if err := s.commit(event.InvestorUpdated, updated, next); err != nil {
		return domain.ExternalInvestor{}, true, err
	}
	return updated, true, nil
}

// Delete removes the investor with id. It reports false as a no-op when absent.
func (s *InvestorService) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.investors.Value()
	removed, index, ok := lo.FindIndexOf(current, func(item domain.ExternalInvestor) bool {
		return item.ID == id
	})
	if !ok {
		return false, nil
	}

	next := slices.Delete(slices.Clone(current), index, index+1)
	if err := s.commit(event.InvestorDeleted, removed, next); err != nil {
		return true, err
	}
	return true, nil
}

// commit must be called with mu held.
func (s *InvestorService) commit(kind event.ChangeKind, investor domain.ExternalInvestor, next []domain.ExternalInvestor) error {
	if err := s.repository.Save(next); err != nil {
		s.log.Error("Persisting investors failed, mutation rolled back",
			"kind", kind, "id", investor.ID, "error", err)
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}
	s.investors.Next(next)

	evt := event.InvestorsChanged{Kind: kind, Investor: investor, Investors: next, At: s.now()}
	for _, sink := range s.sinks {
		sink.Consume(evt)
	}
	return nil
}

func (s *InvestorService) now() time.Time {
	return s.clock().UTC()
}

// nowAfter returns the current time, nudged past previous when the clock has not moved.
func (s *InvestorService) nowAfter(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		return previous.Add(time.Nanosecond)
	}
	return now
}
