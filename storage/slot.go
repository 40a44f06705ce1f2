// Package storage provides the durable key-value slots investors are kept in.
package storage

import (
	"fmt"
	"investor-lab/contract"
	errs "investor-lab/errors"
	"log/slog"
	"strings"
)

type Backend string

const (
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open returns the slot for backend, rooted at path when the backend is on disk.
func Open(backend Backend, path string, log *slog.Logger) (contract.Slot, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendBadger, "":
		slot, err := OpenBadgerSlot(path, log)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case BackendSQLite:
		slot, err := OpenSQLiteSlot(path)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownBackend, backend)
	}
}

// KeyLister is implemented by slots that can enumerate what they hold.
type KeyLister interface {
	Keys() (map[string]int, error)
}
