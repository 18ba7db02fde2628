// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package key

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/vaultmaster/vaultmaster/internal/model"
)

// FileKey is a key-file-derived sub-key. The caller reads the file; this
// package only interprets its contents. A file holding exactly 64 hex
// characters is treated as literal key material, anything else is hashed.
type FileKey struct {
	name string
	raw  []byte
}

// NewFileKey derives a sub-key from key file contents. name is kept for
// error messages and listings only.
func NewFileKey(name string, data []byte) (*FileKey, error) {
	if len(data) == 0 {
		return nil, errors.New("key file is empty")
	}
	if raw, ok := decodeHexKey(data); ok {
		return &FileKey{name: name, raw: raw}, nil
	}
	sum := sha256.Sum256(data)
	return &FileKey{name: name, raw: sum[:]}, nil
}

func decodeHexKey(data []byte) ([]byte, bool) {
	trimmed := make([]byte, 0, len(data))
	for _, b := range data {
		if b == '\n' || b == '\r' || b == ' ' || b == '\t' {
			continue
		}
		trimmed = append(trimmed, b)
	}
	if len(trimmed) != 64 {
		return nil, false
	}
	raw := make([]byte, 32)
	if _, err := hex.Decode(raw, trimmed); err != nil {
		return nil, false
	}
	return raw, true
}

// Kind reports the key file slot.
func (k *FileKey) Kind() model.KeyKind { return model.KindKeyFile }

// Name returns the display name of the originating file.
func (k *FileKey) Name() string { return k.name }

// RawKey returns a copy of the raw key material.
func (k *FileKey) RawKey() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)
	return out
}
