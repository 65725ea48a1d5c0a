// ABOUTME: Badger adapter so the KV client can run without Charm Cloud.
// ABOUTME: Supports an on-disk directory or a purely in-memory database.
package charm

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"
)

// badgerBackend adapts *badger.DB to kvBackend.
type badgerBackend struct {
	db       *badger.DB
	readOnly bool
}

// OpenBadger opens a Badger-backed client. An empty dir keeps everything in memory.
func OpenBadger(dir string, log zerolog.Logger) (*Client, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return newClient(&badgerBackend{db: db}, false, log), nil
}

func (b *badgerBackend) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *badgerBackend) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("not found: %s", key)
	}
	return val, err
}

func (b *badgerBackend) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *badgerBackend) Keys() ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// Sync is a no-op; a local Badger database has no remote.
func (b *badgerBackend) Sync() error { return nil }

func (b *badgerBackend) IsReadOnly() bool { return b.readOnly }

func (b *badgerBackend) Close() error { return b.db.Close() }
