package event

import (
	"investor-lab/domain"
	"time"
)

type ChangeKind string

const (
	InvestorAdded   ChangeKind = "added"
	InvestorUpdated ChangeKind = "updated"
	InvestorDeleted ChangeKind = "deleted"
)

// InvestorsChanged is published after a mutation has been persisted.
// Investor is the record as it was added, updated, or just before deletion.
// Investors is the full committed collection.
type InvestorsChanged struct {
	Kind      ChangeKind
	Investor  domain.ExternalInvestor
	Investors []domain.ExternalInvestor
	At        time.Time
}
