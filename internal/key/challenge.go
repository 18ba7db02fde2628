// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package key

import (
	"fmt"

	"github.com/vaultmaster/vaultmaster/internal/model"
)

// Responder performs the hardware challenge-response interaction. The call
// blocks until the token answers (including any touch requirement); timeout
// and cancellation are the implementation's concern.
type Responder interface {
	// Challenge returns the token's response to the given challenge.
	Challenge(challenge []byte) ([]byte, error)
	// Name identifies the token (e.g. serial and slot) for display.
	Name() string
}

// ChallengeResponseKey derives key material by interrogating an external
// hardware token. The raw material is only available after Perform has run
// for a given challenge.
type ChallengeResponseKey struct {
	responder Responder
	raw       []byte
}

// NewChallengeResponseKey wraps a hardware token responder.
func NewChallengeResponseKey(r Responder) *ChallengeResponseKey {
	return &ChallengeResponseKey{responder: r}
}

// Perform runs the challenge against the token and caches the response as
// this key's raw material.
func (k *ChallengeResponseKey) Perform(challenge []byte) error {
	resp, err := k.responder.Challenge(challenge)
	if err != nil {
		return fmt.Errorf("challenge-response failed: %w", err)
	}
	k.raw = resp
	return nil
}

// Kind reports the challenge-response slot.
func (k *ChallengeResponseKey) Kind() model.KeyKind { return model.KindChallengeResponse }

// Name returns the display name of the underlying token.
func (k *ChallengeResponseKey) Name() string { return k.responder.Name() }

// RawKey returns a copy of the cached response, or nil when no challenge has
// been performed yet.
func (k *ChallengeResponseKey) RawKey() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)
	return out
}
