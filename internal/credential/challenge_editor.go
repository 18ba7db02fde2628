// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

// testChallenge is sent to the token during validation to prove it answers.
var testChallenge = []byte{0x56, 0x4d, 0x43, 0x52}

// ChallengeResponseEditor edits the hardware challenge-response component.
// Validation interrogates the selected token with a test challenge, which
// blocks until the token answers or fails.
type ChallengeResponseEditor struct {
	componentState
	responder key.Responder
}

// Kind reports the challenge-response slot.
func (e *ChallengeResponseEditor) Kind() model.KeyKind { return model.KindChallengeResponse }

// SetResponder selects the hardware token to use.
func (e *ChallengeResponseEditor) SetResponder(r key.Responder) { e.responder = r }

// Responder returns the selected hardware token, or nil.
func (e *ChallengeResponseEditor) Responder() key.Responder { return e.responder }

// Validate checks a token is selected and that it answers a test challenge.
func (e *ChallengeResponseEditor) Validate() error {
	if e.responder == nil {
		return newValidationError(model.KindChallengeResponse, "credential.error_no_token")
	}
	if _, err := e.responder.Challenge(testChallenge); err != nil {
		return newValidationError(model.KindChallengeResponse, "credential.error_token_test", err)
	}
	return nil
}

// ContributeTo adds a challenge-response key for the selected token to the
// draft's challenge-response list.
func (e *ChallengeResponseEditor) ContributeTo(draft *key.CompositeKey) error {
	if e.responder == nil {
		return newValidationError(model.KindChallengeResponse, "credential.error_no_token")
	}
	draft.AddChallengeResponseKey(key.NewChallengeResponseKey(e.responder))
	return nil
}

// Reset clears the selected token.
func (e *ChallengeResponseEditor) Reset() {
	e.responder = nil
}
