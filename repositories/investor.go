package repositories

import (
	"encoding/json"
	"fmt"
	"investor-lab/contract"
	"investor-lab/domain"
	errs "investor-lab/errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// InvestorsKey is the slot key the whole collection lives under.
const InvestorsKey = "external-investors-records"

type IInvestorRepository interface {
	Load() ([]domain.ExternalInvestor, bool, error)
	Save(investors []domain.ExternalInvestor) error
}

type InvestorRepository struct {
	slot contract.Slot
	log  *slog.Logger
}

func NewInvestorRepository(slot contract.Slot, log *slog.Logger) InvestorRepository {
	return InvestorRepository{slot: slot, log: log}
}

// DiskInvestor is the stored shape of one element of the JSON array.
type DiskInvestor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Load reads the collection from the slot.
// found is false when nothing was ever stored. A document that is not a JSON
// array of investors with parseable timestamps yields ErrCorruptSlot.
// Duplicate IDs keep their first occurrence.
func (r InvestorRepository) Load() ([]domain.ExternalInvestor, bool, error) {
	data, found, err := r.slot.Get(InvestorsKey)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", InvestorsKey, err)
	}
	if !found {
		return nil, false, nil
	}

	investors, err := Decode(data)
	if err != nil {
		return nil, true, err
	}

	unique := lo.UniqBy(investors, func(item domain.ExternalInvestor) string { return item.ID })
	if dropped := len(investors) - len(unique); dropped > 0 {
		r.log.Warn("Duplicate investor ids dropped on load", "key", InvestorsKey, "dropped", dropped)
	}
	return unique, true, nil
}

// Save overwrites the slot with the entire collection.
func (r InvestorRepository) Save(investors []domain.ExternalInvestor) error {
	data, err := Encode(investors)
	if err != nil {
		return err
	}
	return r.slot.Set(InvestorsKey, data)
}

// Encode serializes the collection as a JSON array, timestamps in RFC 3339 with nanoseconds.
func Encode(investors []domain.ExternalInvestor) ([]byte, error) {
	disk := lo.Map(investors, func(item domain.ExternalInvestor, _ int) DiskInvestor {
		return fromInvestor(item)
	})
	data, err := json.Marshal(disk)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return data, nil
}

// Decode parses a stored document and rehydrates its timestamps.
func Decode(data []byte) ([]domain.ExternalInvestor, error) {
	var disk []DiskInvestor
	if err := json.Unmarshal(data, &disk); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptSlot, err)
	}
	// "null" unmarshals without error but is not a collection
	if disk == nil {
		return nil, fmt.Errorf("%w: document is not an array", errs.ErrCorruptSlot)
	}

	investors := make([]domain.ExternalInvestor, 0, len(disk))
	for i, d := range disk {
		investor, err := toInvestor(d)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", errs.ErrCorruptSlot, i, err)
		}
		investors = append(investors, investor)
	}
	return investors, nil
}

func fromInvestor(investor domain.ExternalInvestor) DiskInvestor {
	return DiskInvestor{
		ID:          investor.ID,
		Name:        investor.Name,
		Description: investor.Description,
		CreatedAt:   investor.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   investor.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toInvestor(disk DiskInvestor) (domain.ExternalInvestor, error) {
	if disk.ID == "" {
		return domain.ExternalInvestor{}, fmt.Errorf("missing id")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, disk.CreatedAt)
	if err != nil {
		return domain.ExternalInvestor{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, disk.UpdatedAt)
	if err != nil {
		return domain.ExternalInvestor{}, fmt.Errorf("updatedAt: %w", err)
	}
	return domain.ExternalInvestor{
		ID:          disk.ID,
		Name:        disk.Name,
		Description: disk.Description,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}
