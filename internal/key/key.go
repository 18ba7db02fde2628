// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package key models the credential sources that contribute raw key material
// to a database's composite unlock key. The key derivation function that
// turns this material into the actual encryption key is the database
// engine's concern and is not implemented here.
package key

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vaultmaster/vaultmaster/internal/model"
)

// Key is a single credential source contributing raw key material.
type Key interface {
	// Kind reports which credential slot this key occupies.
	Kind() model.KeyKind
	// RawKey returns a copy of the raw key material.
	RawKey() []byte
}

// CompositeKey is the combined unlock credential for a database: an ordered
// set of sub-keys plus an ordered set of challenge-response keys. A zero
// CompositeKey is empty and must never be committed to a database.
type CompositeKey struct {
	keys   []Key
	crKeys []*ChallengeResponseKey
}

// NewCompositeKey returns an empty composite key draft.
func NewCompositeKey() *CompositeKey {
	return &CompositeKey{}
}

// AddKey appends a sub-key. Nil keys are ignored.
func (c *CompositeKey) AddKey(k Key) {
	if k == nil {
		return
	}
	c.keys = append(c.keys, k)
}

// AddChallengeResponseKey appends a challenge-response key. Nil keys are ignored.
func (c *CompositeKey) AddChallengeResponseKey(k *ChallengeResponseKey) {
	if k == nil {
		return
	}
	c.crKeys = append(c.crKeys, k)
}

// Keys returns the sub-keys in insertion order.
func (c *CompositeKey) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// ChallengeResponseKeys returns the challenge-response keys in insertion order.
func (c *CompositeKey) ChallengeResponseKeys() []*ChallengeResponseKey {
	out := make([]*ChallengeResponseKey, len(c.crKeys))
	copy(out, c.crKeys)
	return out
}

// IsEmpty reports whether the composite key has no sub-keys and no
// challenge-response keys.
func (c *CompositeKey) IsEmpty() bool {
	return c == nil || (len(c.keys) == 0 && len(c.crKeys) == 0)
}

// Digest returns a hex SHA-256 digest over all raw key material in order.
// The registry stores this digest so supplied credentials can be verified
// without retaining any key material.
func (c *CompositeKey) Digest() string {
	h := sha256.New()
	for _, k := range c.keys {
		h.Write(k.RawKey())
	}
	for _, k := range c.crKeys {
		h.Write(k.RawKey())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Kinds returns the KeyKind of every contributing key, sub-keys first.
func (c *CompositeKey) Kinds() []model.KeyKind {
	var kinds []model.KeyKind
	for _, k := range c.keys {
		kinds = append(kinds, k.Kind())
	}
	for range c.crKeys {
		kinds = append(kinds, model.KindChallengeResponse)
	}
	return kinds
}
