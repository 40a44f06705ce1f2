//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"investor-lab/domain/event"
)

// Slot is a durable key-value slot.
// Get reports found=false with a nil error when nothing is stored under key.
// Set overwrites the whole value in one write.
type Slot interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}

// EventSink receives change events after they are committed.
type EventSink interface {
	Consume(e event.InvestorsChanged)
}
