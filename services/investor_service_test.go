package services

import (
	"fmt"
	"investor-lab/domain"
	"investor-lab/domain/event"
	errs "investor-lab/errors"
	"investor-lab/mocks"
	"investor-lab/repositories"
	"investor-lab/storage"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fixedClock returns the same instant until moved.
type fixedClock struct{ at time.Time }

func (c *fixedClock) Now() time.Time { return c.at }

func (c *fixedClock) Advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestService(t *testing.T) (*InvestorService, *storage.MemorySlot, *fixedClock) {
	t.Helper()
	slot := storage.NewMemorySlot()
	clock := &fixedClock{at: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	repository := repositories.NewInvestorRepository(slot, slog.Default())
	return NewInvestorService(slog.Default(), repository, domain.LocaleEnglish, clock.Now), slot, clock
}

func names(investors []domain.ExternalInvestor) []string {
	return lo.Map(investors, func(item domain.ExternalInvestor, _ int) string { return item.Name })
}

func TestInvestorService_Seeds_When_Nothing_Stored(t *testing.T) {
	req := require.New(t)
	svc, slot, _ := newTestService(t)

	// Then the four seed records are exposed
	req.Equal(domain.SeedNames(domain.LocaleEnglish), names(svc.Investors()))

	// And the seed is not written back before a mutation
	_, found, err := slot.Get(repositories.InvestorsKey)
	req.NoError(err)
	req.False(found)
}

func TestInvestorService_Seeds_When_Slot_Is_Corrupt(t *testing.T) {
	req := require.New(t)
	slot := storage.NewMemorySlot()
	req.NoError(slot.Set(repositories.InvestorsKey, []byte("{{ not json")))
	repository := repositories.NewInvestorRepository(slot, slog.Default())

	svc := NewInvestorService(slog.Default(), repository, domain.LocaleArabic, nil)

	req.Equal(domain.SeedNames(domain.LocaleArabic), names(svc.Investors()))
	// The corrupt document is left alone until the next mutation
	stored, _, err := slot.Get(repositories.InvestorsKey)
	req.NoError(err)
	req.Equal([]byte("{{ not json"), stored)
}

func TestInvestorService_Loads_Stored_Collection(t *testing.T) {
	req := require.New(t)
	slot := storage.NewMemorySlot()
	repository := repositories.NewInvestorRepository(slot, slog.Default())
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := []domain.ExternalInvestor{{ID: "x1", Name: "Only One", CreatedAt: at, UpdatedAt: at}}
	req.NoError(repository.Save(stored))

	svc := NewInvestorService(slog.Default(), repository, domain.LocaleEnglish, nil)

	req.Equal(stored, svc.Investors())
}

func TestInvestorService_Add(t *testing.T) {
	req := require.New(t)
	svc, slot, _ := newTestService(t)
	before := svc.Investors()

	// When a valid investor is added
	added, err := svc.Add(domain.InvestorInput{Name: "  Test Co ", Description: "x"})
	req.NoError(err)

	// Then exactly one more record exists, last in order
	after := svc.Investors()
	req.Len(after, len(before)+1)
	req.Equal(added, after[len(after)-1])
	req.Equal("Test Co", added.Name)
	req.NotEmpty(added.ID)
	req.Equal(added.CreatedAt, added.UpdatedAt)
	for _, investor := range before {
		req.NotEqual(investor.ID, added.ID)
	}

	// And a reload reproduces it
	reloaded := NewInvestorService(slog.Default(), repositories.NewInvestorRepository(slot, slog.Default()), domain.LocaleEnglish, nil)
	req.Equal(after, reloaded.Investors())
}

func TestInvestorService_Add_Rejects_Invalid_Input(t *testing.T) {
	inputs := map[string]domain.InvestorInput{
		"empty name":       {Name: ""},
		"blank name":       {Name: "   "},
		"long name":        {Name: strings.Repeat("a", domain.MaxNameLength+1)},
		"long description": {Name: "ok", Description: strings.Repeat("d", domain.MaxDescriptionLength+1)},
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			svc, slot, _ := newTestService(t)

			_, err := svc.Add(input)
			req.ErrorIs(err, errs.ErrInvalidInvestor)
			req.Len(svc.Investors(), 4)
			_, found, _ := slot.Get(repositories.InvestorsKey)
			req.False(found)
		})
	}
}

func TestInvestorService_Add_Accepts_Max_Length_In_Runes(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)

	// 100 Arabic letters are 200 bytes but 100 characters
	_, err := svc.Add(domain.InvestorInput{Name: strings.Repeat("م", domain.MaxNameLength)})
	req.NoError(err)
}

func TestInvestorService_Update(t *testing.T) {
	req := require.New(t)
	svc, slot, clock := newTestService(t)
	before := svc.Investors()
	target := before[1]

	clock.Advance(time.Minute)
	updated, found, err := svc.Update(target.ID, domain.InvestorPatch{Name: lo.ToPtr("Renamed")})
	req.NoError(err)
	req.True(found)

	// Then id and createdAt are kept, the field is overwritten, updatedAt moved forward
	req.Equal(target.ID, updated.ID)
	req.Equal(target.CreatedAt, updated.CreatedAt)
	req.Equal("Renamed", updated.Name)
	req.Equal(target.Description, updated.Description)
	req.True(updated.UpdatedAt.After(target.UpdatedAt))

	// And the other records are unchanged
	after := svc.Investors()
	req.Equal(before[0], after[0])
	req.Equal(updated, after[1])
	req.Equal(before[2:], after[2:])

	loaded, _, err := repositories.NewInvestorRepository(slot, slog.Default()).Load()
	req.NoError(err)
	req.Equal(after, loaded)
}

func TestInvestorService_Update_Strictly_Increases_UpdatedAt_With_Frozen_Clock(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)
	target := svc.Investors()[0]

	first, _, err := svc.Update(target.ID, domain.InvestorPatch{})
	req.NoError(err)
	second, _, err := svc.Update(target.ID, domain.InvestorPatch{})
	req.NoError(err)

	req.True(first.UpdatedAt.After(target.UpdatedAt))
	req.True(second.UpdatedAt.After(first.UpdatedAt))
	req.False(second.CreatedAt.After(second.UpdatedAt))
}

func TestInvestorService_Update_Rejects_Invalid_Patch(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)
	target := svc.Investors()[0]

	_, found, err := svc.Update(target.ID, domain.InvestorPatch{Name: lo.ToPtr(" ")})
	req.True(found)
	req.ErrorIs(err, errs.ErrInvalidInvestor)
	req.Equal(target, svc.Investors()[0])
}

func TestInvestorService_Update_Unknown_ID_Is_A_NoOp(t *testing.T) {
	req := require.New(t)
	svc, slot, _ := newTestService(t)
	before := svc.Investors()
	notified := 0
	unsubscribe := svc.Subscribe(func([]domain.ExternalInvestor) { notified++ })
	defer unsubscribe()

	_, found, err := svc.Update("missing", domain.InvestorPatch{Name: lo.ToPtr("x")})
	req.NoError(err)
	req.False(found)
	req.Equal(before, svc.Investors())
	// Only the replay on subscribe
	req.Equal(1, notified)
	_, stored, _ := slot.Get(repositories.InvestorsKey)
	req.False(stored)
}

func TestInvestorService_Delete(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)
	before := svc.Investors()

	found, err := svc.Delete(before[2].ID)
	req.NoError(err)
	req.True(found)

	after := svc.Investors()
	req.Len(after, len(before)-1)
	_, stillThere := svc.Get(before[2].ID)
	req.False(stillThere)

	// Deleting it again changes nothing
	found, err = svc.Delete(before[2].ID)
	req.NoError(err)
	req.False(found)
	req.Equal(after, svc.Investors())
}

func TestInvestorService_Observers_See_Every_Mutation_In_Order(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)

	var sizes []int
	unsubscribe := svc.Subscribe(func(investors []domain.ExternalInvestor) { sizes = append(sizes, len(investors)) })
	defer unsubscribe()

	first, err := svc.Add(domain.InvestorInput{Name: "One"})
	req.NoError(err)
	_, err = svc.Add(domain.InvestorInput{Name: "Two"})
	req.NoError(err)
	_, err = svc.Delete(first.ID)
	req.NoError(err)

	req.Equal([]int{4, 5, 6, 5}, sizes)
}

func TestInvestorService_Sinks_Receive_Committed_Changes(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestService(t)
	mockSink := mocks.NewMockEventSink(ctrl)
	svc.RegisterSinks(mockSink)

	var kinds []event.ChangeKind
	mockSink.EXPECT().Consume(gomock.Any()).Do(func(evt event.InvestorsChanged) {
		kinds = append(kinds, evt.Kind)
	}).Times(3)

	added, err := svc.Add(domain.InvestorInput{Name: "Sinked"})
	req.NoError(err)
	_, _, err = svc.Update(added.ID, domain.InvestorPatch{Description: lo.ToPtr("d")})
	req.NoError(err)
	_, err = svc.Delete(added.ID)
	req.NoError(err)

	req.Equal([]event.ChangeKind{event.InvestorAdded, event.InvestorUpdated, event.InvestorDeleted}, kinds)
}

func TestInvestorService_Write_Failure_Rolls_Back(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSlot := mocks.NewMockSlot(ctrl)

	// Given nothing is stored and every write fails
	mockSlot.EXPECT().Get(repositories.InvestorsKey).Return(nil, false, nil).Times(1)
	mockSlot.EXPECT().Set(repositories.InvestorsKey, gomock.Any()).Return(fmt.Errorf("quota exceeded")).Times(3)

	svc := NewInvestorService(slog.Default(), repositories.NewInvestorRepository(mockSlot, slog.Default()), domain.LocaleEnglish, nil)
	before := svc.Investors()
	notified := 0
	unsubscribe := svc.Subscribe(func([]domain.ExternalInvestor) { notified++ })
	defer unsubscribe()

	// When every kind of mutation is attempted
	_, err := svc.Add(domain.InvestorInput{Name: "Lost"})
	req.ErrorIs(err, errs.ErrPersistence)
	_, found, err := svc.Update(before[0].ID, domain.InvestorPatch{Name: lo.ToPtr("Lost")})
	req.True(found)
	req.ErrorIs(err, errs.ErrPersistence)
	found, err = svc.Delete(before[0].ID)
	req.True(found)
	req.ErrorIs(err, errs.ErrPersistence)

	// Then memory is unchanged and nothing was published past the replay
	req.Equal(before, svc.Investors())
	req.Equal(1, notified)
}

func TestInvestorService_Seeds_When_Slot_Read_Fails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSlot := mocks.NewMockSlot(ctrl)
	mockSlot.EXPECT().Get(repositories.InvestorsKey).Return(nil, false, fmt.Errorf("io error")).Times(1)

	svc := NewInvestorService(slog.Default(), repositories.NewInvestorRepository(mockSlot, slog.Default()), domain.LocaleEnglish, nil)

	req.Len(svc.Investors(), 4)
}

func TestInvestorService_Filter_Term_Is_Distinct(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService(t)

	var terms []string
	unsubscribe := svc.SubscribeFilter(func(term string) { terms = append(terms, term) })
	defer unsubscribe()

	svc.SetFilterTerm("te")
	svc.SetFilterTerm("te")
	svc.SetFilterTerm("test")

	req.Equal([]string{"", "te", "test"}, terms)
	req.Equal("test", svc.FilterTerm())
}

func TestValidateInvestor(t *testing.T) {
	req := require.New(t)
	req.NoError(ValidateInvestor(InvestorRequest{Name: "ok"}))
	req.ErrorIs(ValidateInvestor(InvestorRequest{}), errs.ErrInvalidInvestor)
}
