// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package credential implements the composite credential assembly engine:
// the per-component editors, their state machine, and the controller that
// atomically replaces a database's unlock key.
package credential

import (
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

// State is the edit state of a single key component.
type State int

const (
	// StateAddNew means no credential of this kind exists yet and the user
	// has not started entering one.
	StateAddNew State = iota
	// StateEdit means the user is actively entering or replacing a
	// credential of this kind.
	StateEdit
	// StateLeaveOrRemove means a credential of this kind already exists and
	// the user has neither edited nor removed it. This is the default when
	// loading an existing credential.
	StateLeaveOrRemove
)

// String returns a short name for logging.
func (s State) String() string {
	switch s {
	case StateAddNew:
		return "add-new"
	case StateEdit:
		return "edit"
	case StateLeaveOrRemove:
		return "leave-or-remove"
	default:
		return "invalid"
	}
}

// Editor is the capability surface shared by the three key component
// editors. The set of implementations is fixed by the credential model; the
// unexported load method keeps it closed to this package.
type Editor interface {
	// Kind reports which credential slot this editor manages.
	Kind() model.KeyKind
	// State reports the current edit state.
	State() State
	// BeginEdit moves the editor into Edit state (user-initiated add/edit).
	BeginEdit()
	// Remove moves Edit or LeaveOrRemove into AddNew (user-initiated remove).
	Remove()
	// Validate checks the candidate credential. It may block on external
	// I/O (file read, hardware token). A nil result means ContributeTo may
	// be called.
	Validate() error
	// ContributeTo adds the validated credential to the draft.
	ContributeTo(draft *key.CompositeKey) error
	// ComponentAdded reports whether this kind currently contributes a
	// credential. Presentation bookkeeping only.
	ComponentAdded() bool
	// Reset clears transient edit buffers.
	Reset()

	// load resets the editor to its post-load initial state: LeaveOrRemove
	// when a credential of this kind exists, AddNew otherwise.
	load(present bool)
}

// componentState carries the state machine shared by all editors.
type componentState struct {
	state  State
	added  bool
	onEdit func()
}

func (c *componentState) State() State { return c.state }

func (c *componentState) BeginEdit() {
	c.state = StateEdit
	if c.onEdit != nil {
		c.onEdit()
	}
}

func (c *componentState) Remove() {
	if c.state == StateAddNew {
		return
	}
	c.state = StateAddNew
	if c.onEdit != nil {
		c.onEdit()
	}
}

func (c *componentState) ComponentAdded() bool { return c.added }

func (c *componentState) load(present bool) {
	c.added = present
	if present {
		c.state = StateLeaveOrRemove
	} else {
		c.state = StateAddNew
	}
}
