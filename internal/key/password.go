// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package key

import (
	"crypto/sha256"

	"github.com/vaultmaster/vaultmaster/internal/model"
)

// PasswordKey is a password-derived sub-key. Only the SHA-256 of the
// password text is retained; the cleartext is never stored.
type PasswordKey struct {
	raw [sha256.Size]byte
}

// NewPasswordKey derives a sub-key from the given password text.
func NewPasswordKey(password string) *PasswordKey {
	return &PasswordKey{raw: sha256.Sum256([]byte(password))}
}

// Kind reports the password slot.
func (k *PasswordKey) Kind() model.KeyKind { return model.KindPassword }

// RawKey returns a copy of the raw key material.
func (k *PasswordKey) RawKey() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw[:])
	return out
}
