// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package quickunlock provides a concurrency-safe, in-memory cache that
// allows re-entry to an already-unlocked database without re-supplying the
// full composite credential. Entries are sealed with an ephemeral in-process
// key and wiped on invalidation; nothing ever touches disk.
package quickunlock

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrNoEntry is returned when no quick-unlock entry exists for a database.
var ErrNoEntry = errors.New("no quick-unlock entry")

type entry struct {
	nonce  []byte
	sealed []byte
}

// Cache seals per-database secrets under a process-lifetime key. A restart
// discards everything, which is the intended lifetime for quick-unlock.
type Cache struct {
	mu      sync.Mutex
	aead    cipher.AEAD
	entries map[string]entry
}

// NewCache creates a cache with a fresh random sealing key.
func NewCache() (*Cache, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	// The raw key is no longer needed once the AEAD is constructed.
	for i := range key {
		key[i] = 0
	}
	return &Cache{aead: aead, entries: make(map[string]entry)}, nil
}

// Store seals the secret for the given database identity, replacing any
// previous entry.
func (c *Cache) Store(databaseID string, secret []byte) error {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	sealed := c.aead.Seal(nil, nonce, secret, []byte(databaseID))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.wipeLocked(databaseID)
	c.entries[databaseID] = entry{nonce: nonce, sealed: sealed}
	return nil
}

// Get returns a copy of the stored secret. The caller is responsible for
// zeroing the returned slice after use.
func (c *Cache) Get(databaseID string) ([]byte, error) {
	c.mu.Lock()
	e, ok := c.entries[databaseID]
	c.mu.Unlock()
	if !ok {
		return nil, ErrNoEntry
	}
	return c.aead.Open(nil, e.nonce, e.sealed, []byte(databaseID))
}

// HasEntry reports whether a quick-unlock entry exists for the database.
func (c *Cache) HasEntry(databaseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[databaseID]
	return ok
}

// Invalidate wipes the entry for the given database identity, forcing the
// next unlock to supply the full credential.
func (c *Cache) Invalidate(databaseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wipeLocked(databaseID)
}

// InvalidateAll wipes every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.entries {
		c.wipeLocked(id)
	}
}

func (c *Cache) wipeLocked(databaseID string) {
	e, ok := c.entries[databaseID]
	if !ok {
		return
	}
	for i := range e.sealed {
		e.sealed[i] = 0
	}
	for i := range e.nonce {
		e.nonce[i] = 0
	}
	delete(c.entries, databaseID)
}
