// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
	"github.com/vaultmaster/vaultmaster/internal/quality"
)

// PasswordEditor edits the password component. The candidate text lives in
// a transient buffer until it is validated and contributed to a draft.
type PasswordEditor struct {
	componentState
	password string
	repeat   string
	visible  bool
}

// Kind reports the password slot.
func (e *PasswordEditor) Kind() model.KeyKind { return model.KindPassword }

// SetPassword stores the candidate password and its confirmation.
func (e *PasswordEditor) SetPassword(password, repeat string) {
	e.password = password
	e.repeat = repeat
}

// IsEmpty reports whether the candidate password is empty.
func (e *PasswordEditor) IsEmpty() bool { return e.password == "" }

// Quality scores the candidate password.
func (e *PasswordEditor) Quality() quality.Score { return quality.Evaluate(e.password) }

// SetPasswordVisible toggles whether the UI shows the password cleartext.
func (e *PasswordEditor) SetPasswordVisible(visible bool) { e.visible = visible }

// PasswordVisible reports the visibility toggle for the UI.
func (e *PasswordEditor) PasswordVisible() bool { return e.visible }

// Validate checks that the password and its confirmation match.
func (e *PasswordEditor) Validate() error {
	if e.password != e.repeat {
		return newValidationError(model.KindPassword, "credential.error_password_mismatch")
	}
	return nil
}

// ContributeTo adds the password-derived sub-key to the draft.
func (e *PasswordEditor) ContributeTo(draft *key.CompositeKey) error {
	draft.AddKey(key.NewPasswordKey(e.password))
	return nil
}

// Reset clears the edit buffers and hides the password.
func (e *PasswordEditor) Reset() {
	e.password = ""
	e.repeat = ""
	e.visible = false
}
