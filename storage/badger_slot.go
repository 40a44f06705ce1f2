package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type BadgerSlot struct {
	db  *badger.DB
	log *slog.Logger
}

// OpenBadgerSlot opens (or creates) a Badger database at path.
func OpenBadgerSlot(path string, log *slog.Logger) (*BadgerSlot, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	return NewBadgerSlot(db, log), nil
}

func NewBadgerSlot(db *badger.DB, log *slog.Logger) *BadgerSlot {
	return &BadgerSlot{db: db, log: log}
}

func (s *BadgerSlot) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set overwrites the value in a single transaction, so readers see either the old or the new document.
func (s *BadgerSlot) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *BadgerSlot) Close() error {
	s.log.Info("Closing BadgerDB...")
	return s.db.Close()
}

// Keys lists every key with its value size, for inspection.
func (s *BadgerSlot) Keys() (map[string]int, error) {
	keys := make(map[string]int)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(value []byte) error {
				keys[key] = len(value)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return keys, err
}
