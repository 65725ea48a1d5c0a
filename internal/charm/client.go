// ABOUTME: KV-backed sample store over Charm KV or a local Badger database.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync for Charm.
package charm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/rs/zerolog"
)

const (
	// DBName is the Charm KV database name.
	DBName    = "vitals"
	charmHost = "charm.2389.dev"

	SamplePrefix = "sample:"
	AuthPrefix   = "auth:"
)

// kvBackend is the subset of a key-value database the client needs.
// *kv.KV satisfies it directly; badgerBackend adapts *badger.DB.
type kvBackend interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client is a Store over a KV backend.
type Client struct {
	kv       kvBackend
	autoSync bool
	closed   bool
	log      zerolog.Logger
	mu       sync.RWMutex
}

// InitClient initializes the global Charm-backed client.
// Thread-safe; can be called multiple times.
func InitClient(log zerolog.Logger) (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = newClient(db, true, log)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

func newClient(backend kvBackend, autoSync bool, log zerolog.Logger) *Client {
	return &Client{
		kv:       backend,
		autoSync: autoSync,
		log:      log.With().Str("component", "storage.kv").Logger(),
	}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.kv.Close()
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// ID returns the Charm account ID this device is linked to.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Sync synchronizes local state with the remote, when the backend has one.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled calls Sync if autoSync is enabled.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		if err := c.kv.Sync(); err != nil {
			c.log.Warn().Err(err).Msg("sync after write failed")
		}
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// BulkLoad runs fn with auto-sync off, then restores it and syncs once if it
// was on. Nothing is synced when fn fails.
func (c *Client) BulkLoad(fn func() error) error {
	c.mu.RLock()
	prev := c.autoSync
	c.mu.RUnlock()

	c.SetAutoSync(false)
	err := fn()
	c.SetAutoSync(prev)
	if err != nil {
		return err
	}
	if prev {
		return c.Sync()
	}
	return nil
}

// errReadOnly is returned for writes while another process holds the lock.
var errReadOnly = fmt.Errorf("cannot write: database is locked by another process (MCP server?)")

// setMany stores several values and syncs once.
func (c *Client) setMany(keys [][]byte, values [][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	for i := range keys {
		if err := c.kv.Set(keys[i], values[i]); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// deleteMany removes keys and syncs once.
func (c *Client) deleteMany(keys [][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}
	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// keysByPrefix returns all keys starting with prefix.
func (c *Client) keysByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	prefixBytes := []byte(prefix)
	var matches [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			matches = append(matches, key)
		}
	}
	return matches, nil
}

// get retrieves a single value.
func (c *Client) get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get(key)
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
