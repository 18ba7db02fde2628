// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package database holds the in-memory representation of an unlocked
// encrypted database: its identity, its current composite key, and its
// modification state. Key replacement is atomic: the stored key digest
// is persisted before the in-memory key is swapped, so a persistence
// failure leaves the old key in force.
package database

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/logging"
)

// ErrEmptyKey is returned when a key replacement carries no key material.
var ErrEmptyKey = errors.New("database: composite key has no components")

// Recorder persists key metadata for a database. Implemented by the
// registry store; nil is allowed for databases not tracked in a registry.
type Recorder interface {
	UpdateKeyDigest(publicID, digest, kinds string) error
	TouchModified(publicID string) error
}

// Database is an unlocked database instance. Safe for concurrent use.
type Database struct {
	mu       sync.Mutex
	publicID string
	name     string
	path     string
	current  *key.CompositeKey
	modified bool
	recorder Recorder
}

// New creates a database instance with a fresh public ID and no key.
func New(name, path string, recorder Recorder) *Database {
	return &Database{
		publicID: uuid.New().String(),
		name:     name,
		path:     path,
		recorder: recorder,
	}
}

// Open wraps an already-registered database under its existing public ID.
func Open(publicID, name, path string, current *key.CompositeKey, recorder Recorder) *Database {
	return &Database{
		publicID: publicID,
		name:     name,
		path:     path,
		current:  current,
		recorder: recorder,
	}
}

// ID returns the stable public identifier of this database.
func (d *Database) ID() string {
	return d.publicID
}

// Name returns the registry name of this database.
func (d *Database) Name() string {
	return d.name
}

// Path returns the on-disk location, if known.
func (d *Database) Path() string {
	return d.path
}

// CurrentKey returns the composite key currently protecting the database.
// Returns nil when the database has never been keyed.
func (d *Database) CurrentKey() *key.CompositeKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// ReplaceKey atomically installs a new composite key. The key must carry
// at least one component. When a recorder is attached the new digest is
// persisted first; on persistence failure the old key stays in effect.
func (d *Database) ReplaceKey(k *key.CompositeKey) error {
	if k == nil || k.IsEmpty() {
		return ErrEmptyKey
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recorder != nil {
		names := make([]string, 0, 3)
		for _, kind := range k.Kinds() {
			names = append(names, kind.String())
		}
		if err := d.recorder.UpdateKeyDigest(d.publicID, k.Digest(), strings.Join(names, ",")); err != nil {
			return err
		}
	}
	d.current = k
	logging.Debugf("database %s: composite key replaced (%d components)", d.name, len(k.Keys())+len(k.ChallengeResponseKeys()))
	return nil
}

// MarkModified flags the database as having unsaved metadata changes and,
// when a recorder is attached, bumps the registry timestamp.
func (d *Database) MarkModified() {
	d.mu.Lock()
	d.modified = true
	d.mu.Unlock()

	if d.recorder != nil {
		if err := d.recorder.TouchModified(d.publicID); err != nil {
			logging.Errorf("database %s: failed to record modification: %v", d.name, err)
		}
	}
}

// Modified reports whether the database has been marked modified.
func (d *Database) Modified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modified
}
