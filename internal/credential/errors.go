// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"errors"
	"fmt"

	"github.com/vaultmaster/vaultmaster/internal/i18n"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

// ErrUserDeclined reports that the user declined a confirmation. It is a
// normal abort path, not a fault; callers silently re-open the editor.
var ErrUserDeclined = errors.New("user declined")

// ErrPolicyViolation reports a password below the configured hard minimum
// quality. It is not overridable.
var ErrPolicyViolation = errors.New("password below minimum quality")

// ErrNoKeyMaterial reports a draft that would leave the database with no way
// to unlock it.
var ErrNoKeyMaterial = errors.New("no key material")

// ValidationError reports a malformed candidate credential on a specific
// component. The message is surfaced to the user verbatim.
type ValidationError struct {
	Kind    model.KeyKind
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// newValidationError builds a ValidationError from a localized message ID.
func newValidationError(kind model.KeyKind, messageID string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: i18n.T(messageID, args...)}
}

// CommitError reports that the database collaborator refused or failed the
// atomic key replacement. The controller performs no state reset in this
// case so the user's edits are not lost.
type CommitError struct {
	Err error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed: %v", e.Err)
}

// Unwrap exposes the underlying database error.
func (e *CommitError) Unwrap() error { return e.Err }
