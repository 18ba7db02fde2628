// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"errors"
	"testing"

	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

func TestComponentStateTransitions(t *testing.T) {
	var dirty int
	c := &componentState{onEdit: func() { dirty++ }}

	c.load(false)
	if c.State() != StateAddNew || c.ComponentAdded() {
		t.Fatal("loading without an existing credential must start in AddNew")
	}

	c.BeginEdit()
	if c.State() != StateEdit {
		t.Fatal("BeginEdit must move to Edit")
	}
	if dirty != 1 {
		t.Fatalf("BeginEdit must notify dirty tracking, got %d", dirty)
	}

	c.Remove()
	if c.State() != StateAddNew {
		t.Fatal("Remove must move Edit to AddNew")
	}
	if dirty != 2 {
		t.Fatalf("Remove must notify dirty tracking, got %d", dirty)
	}

	// Remove in AddNew is a no-op and must not report a change.
	c.Remove()
	if dirty != 2 {
		t.Fatal("Remove in AddNew must not notify dirty tracking")
	}

	c.load(true)
	if c.State() != StateLeaveOrRemove || !c.ComponentAdded() {
		t.Fatal("loading an existing credential must start in LeaveOrRemove")
	}
}

func TestStateString(t *testing.T) {
	if StateAddNew.String() != "add-new" || StateEdit.String() != "edit" ||
		StateLeaveOrRemove.String() != "leave-or-remove" {
		t.Fatal("unexpected state names")
	}
	if State(7).String() != "invalid" {
		t.Fatal("out-of-range state must stringify as invalid")
	}
}

func TestPasswordEditorVisibilityAndReset(t *testing.T) {
	e := &PasswordEditor{}
	e.SetPassword("secret", "secret")
	e.SetPasswordVisible(true)

	if e.IsEmpty() {
		t.Fatal("editor with a candidate must not be empty")
	}
	if !e.PasswordVisible() {
		t.Fatal("visibility toggle lost")
	}

	e.Reset()
	if !e.IsEmpty() || e.PasswordVisible() {
		t.Fatal("Reset must clear buffers and hide the password")
	}
}

func TestPasswordEditorValidateMismatch(t *testing.T) {
	e := &PasswordEditor{}
	e.SetPassword("secret", "secert")
	err := e.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Kind != model.KindPassword {
		t.Fatalf("unexpected component kind: %v", verr.Kind)
	}

	e.SetPassword("secret", "secret")
	if err := e.Validate(); err != nil {
		t.Fatalf("matching passwords must validate, got %v", err)
	}
}

func TestKeyFileEditorValidateAndContribute(t *testing.T) {
	e := &KeyFileEditor{readFile: func(path string) ([]byte, error) {
		if path != "vault.key" {
			return nil, errors.New("unexpected path")
		}
		return []byte("key material"), nil
	}}

	if err := e.Validate(); err == nil {
		t.Fatal("empty path must fail validation")
	}

	e.SetPath("vault.key")
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	draft := key.NewCompositeKey()
	if err := e.ContributeTo(draft); err != nil {
		t.Fatalf("ContributeTo returned error: %v", err)
	}
	if len(draft.Keys()) != 1 || draft.Keys()[0].Kind() != model.KindKeyFile {
		t.Fatal("draft must contain the file sub-key")
	}
}

func TestKeyFileEditorReadFailure(t *testing.T) {
	e := &KeyFileEditor{readFile: func(string) ([]byte, error) {
		return nil, errors.New("permission denied")
	}}
	e.SetPath("locked.key")

	err := e.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// Contribution without a successful validation must fail, not panic.
	if err := e.ContributeTo(key.NewCompositeKey()); err == nil {
		t.Fatal("ContributeTo without validated material must fail")
	}
}

func TestKeyFileEditorSetPathInvalidatesPriorValidation(t *testing.T) {
	e := &KeyFileEditor{readFile: func(string) ([]byte, error) { return []byte("data"), nil }}
	e.SetPath("a.key")
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	e.SetPath("b.key")
	if err := e.ContributeTo(key.NewCompositeKey()); err == nil {
		t.Fatal("changing the path must require re-validation")
	}
}

func TestChallengeEditorValidate(t *testing.T) {
	e := &ChallengeResponseEditor{}
	if err := e.Validate(); err == nil {
		t.Fatal("validation without a selected token must fail")
	}

	e.SetResponder(&fakeResponder{resp: []byte("ok")})
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	draft := key.NewCompositeKey()
	if err := e.ContributeTo(draft); err != nil {
		t.Fatalf("ContributeTo returned error: %v", err)
	}
	if len(draft.ChallengeResponseKeys()) != 1 {
		t.Fatal("draft must contain the challenge-response key")
	}

	e.Reset()
	if e.Responder() != nil {
		t.Fatal("Reset must clear the selected token")
	}
}
