// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/logging"
	"github.com/vaultmaster/vaultmaster/internal/model"
	"github.com/vaultmaster/vaultmaster/internal/quality"
)

// Database is the minimal contract the controller needs from the database
// collaborator. ReplaceKey must be atomic: a failure leaves the previous key
// fully in place.
type Database interface {
	ID() string
	CurrentKey() *key.CompositeKey
	ReplaceKey(*key.CompositeKey) error
	MarkModified()
}

// QuickUnlock invalidates cached quick-unlock entries when the credential
// set changes.
type QuickUnlock interface {
	Invalidate(databaseID string)
}

// Confirmer presents blocking yes/no prompts. A false return is a normal
// cancellation, not a fault.
type Confirmer interface {
	ConfirmNoPassword() bool
	ConfirmWeakPassword() bool
}

// Settings exposes the single configuration value the save pipeline reads.
type Settings interface {
	MinPasswordQuality() int
}

// Controller orchestrates load, validate, build, commit, and discard across
// the three key component editors. One controller instance exclusively owns
// its editors and the draft; no other save may be in flight for the same
// session.
type Controller struct {
	db          Database
	quickUnlock QuickUnlock
	confirm     Confirmer
	settings    Settings

	password  *PasswordEditor
	keyFile   *KeyFileEditor
	challenge *ChallengeResponseEditor

	dirty bool
}

// NewController builds a controller for one credential-edit session and
// loads the database's current key components into the editors.
func NewController(db Database, qu QuickUnlock, confirm Confirmer, settings Settings, readFile FileReader) *Controller {
	c := &Controller{
		db:          db,
		quickUnlock: qu,
		confirm:     confirm,
		settings:    settings,
		password:    &PasswordEditor{},
		keyFile:     &KeyFileEditor{readFile: readFile},
		challenge:   &ChallengeResponseEditor{},
	}
	c.password.onEdit = c.MarkDirty
	c.keyFile.onEdit = c.MarkDirty
	c.challenge.onEdit = c.MarkDirty
	c.Load()
	return c
}

// Password returns the password component editor.
func (c *Controller) Password() *PasswordEditor { return c.password }

// KeyFile returns the key file component editor.
func (c *Controller) KeyFile() *KeyFileEditor { return c.keyFile }

// ChallengeResponse returns the challenge-response component editor.
func (c *Controller) ChallengeResponse() *ChallengeResponseEditor { return c.challenge }

// MarkDirty records that a component entered edit mode or was removed.
func (c *Controller) MarkDirty() { c.dirty = true }

// Dirty reports whether the session has unsaved user-initiated changes.
func (c *Controller) Dirty() bool { return c.dirty }

// Load snapshots the database's current key components into the editors and
// clears the dirty flag so the session starts clean.
func (c *Controller) Load() {
	c.resetEditors()
	c.dirty = false
}

// Save runs the fail-fast assembly pipeline. Any non-nil return guarantees
// zero side effects on the database and the quick-unlock cache, except for
// CommitError, after which editor state is deliberately left untouched.
func (c *Controller) Save() error {
	// A component still sitting in its edit page counts as a pending change
	// even if the user never typed anything.
	c.dirty = c.dirty ||
		c.password.State() == StateEdit ||
		c.keyFile.State() == StateEdit ||
		c.challenge.State() == StateEdit

	current := c.db.CurrentKey()

	// Key unchanged; nothing to rebuild.
	if !current.IsEmpty() && !c.dirty {
		return nil
	}

	oldPassword, oldFile, oldChallenge := splitExisting(current)

	draft := key.NewCompositeKey()

	// Password first; ordering matters because its confirmations gate the
	// rest of the pipeline.
	switch {
	case c.password.State() == StateLeaveOrRemove:
		// The loader guarantees an existing password whenever this state is
		// reachable; a missing one is a contract violation.
		if oldPassword == nil {
			return newValidationError(model.KindPassword, "credential.error_missing_existing", model.KindPassword)
		}
		draft.AddKey(oldPassword)
	case c.password.State() == StateAddNew || c.password.IsEmpty():
		if !c.confirm.ConfirmNoPassword() {
			return ErrUserDeclined
		}
	default: // Edit with a non-empty candidate
		if err := c.password.Validate(); err != nil {
			return err
		}
		minQuality := quality.ClampMinimum(c.settings.MinPasswordQuality())
		score := c.password.Quality()
		if score < minQuality {
			return ErrPolicyViolation
		}
		if score < quality.Good && !c.confirm.ConfirmWeakPassword() {
			return ErrUserDeclined
		}
		if err := c.password.ContributeTo(draft); err != nil {
			return err
		}
	}

	if err := addToDraft(c.keyFile, draft, oldFile); err != nil {
		return err
	}
	if err := addChallengeToDraft(c.challenge, draft, oldChallenge); err != nil {
		return err
	}

	// A database must never be rekeyed to have no way to unlock it.
	if draft.IsEmpty() {
		return ErrNoKeyMaterial
	}

	if err := c.db.ReplaceKey(draft); err != nil {
		// No reset and no quick-unlock invalidation: the user's edits stay
		// intact and the old cached entry still matches the old key.
		return &CommitError{Err: err}
	}
	c.quickUnlock.Invalidate(c.db.ID())

	if c.dirty {
		c.db.MarkModified()
	}

	logging.Debugf("credential: replaced key for database %s", c.db.ID())

	c.resetEditors()
	c.dirty = false
	return nil
}

// Discard resets all component editors without touching the database. Used
// for explicit user cancellation.
func (c *Controller) Discard() {
	c.resetEditors()
}

// resetEditors returns every editor to its post-load initial state derived
// from the database's current key set.
func (c *Controller) resetEditors() {
	oldPassword, oldFile, oldChallenge := splitExisting(c.db.CurrentKey())

	c.password.Reset()
	c.password.load(oldPassword != nil)
	c.keyFile.Reset()
	c.keyFile.load(oldFile != nil)
	c.challenge.Reset()
	c.challenge.load(oldChallenge != nil)
}

// splitExisting partitions a composite key by component kind. Each result
// may be nil.
func splitExisting(current *key.CompositeKey) (password, file key.Key, challenge *key.ChallengeResponseKey) {
	if current == nil {
		return nil, nil, nil
	}
	for _, k := range current.Keys() {
		switch k.Kind() {
		case model.KindPassword:
			password = k
		case model.KindKeyFile:
			file = k
		}
	}
	for _, k := range current.ChallengeResponseKeys() {
		challenge = k
	}
	return password, file, challenge
}

// addToDraft applies the three-way dispatch for a sub-key component:
// validate-and-add on Edit, carry-forward on LeaveOrRemove, nothing on
// AddNew.
func addToDraft(e Editor, draft *key.CompositeKey, old key.Key) error {
	switch e.State() {
	case StateEdit:
		if err := e.Validate(); err != nil {
			return err
		}
		if err := e.ContributeTo(draft); err != nil {
			return err
		}
	case StateLeaveOrRemove:
		if old == nil {
			return newValidationError(e.Kind(), "credential.error_missing_existing", e.Kind())
		}
		draft.AddKey(old)
	}
	return nil
}

// addChallengeToDraft is the challenge-response variant of addToDraft; the
// carry-forward lands in the draft's challenge-response list.
func addChallengeToDraft(e Editor, draft *key.CompositeKey, old *key.ChallengeResponseKey) error {
	switch e.State() {
	case StateEdit:
		if err := e.Validate(); err != nil {
			return err
		}
		if err := e.ContributeTo(draft); err != nil {
			return err
		}
	case StateLeaveOrRemove:
		if old == nil {
			return newValidationError(e.Kind(), "credential.error_missing_existing", e.Kind())
		}
		draft.AddChallengeResponseKey(old)
	}
	return nil
}
