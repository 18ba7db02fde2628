// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package credential

import (
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

// FileReader loads key file contents. The core never touches the filesystem
// itself; the CLI wires this to os.ReadFile, tests inject fakes.
type FileReader func(path string) ([]byte, error)

// KeyFileEditor edits the key file component. Validate performs the
// (blocking) file read so contribution itself cannot fail on I/O.
type KeyFileEditor struct {
	componentState
	readFile FileReader
	path     string
	fileKey  *key.FileKey
}

// Kind reports the key file slot.
func (e *KeyFileEditor) Kind() model.KeyKind { return model.KindKeyFile }

// SetPath stores the selected key file path.
func (e *KeyFileEditor) SetPath(path string) {
	e.path = path
	e.fileKey = nil
}

// Path returns the selected key file path.
func (e *KeyFileEditor) Path() string { return e.path }

// Validate reads the selected file and derives the candidate sub-key.
func (e *KeyFileEditor) Validate() error {
	if e.path == "" {
		return newValidationError(model.KindKeyFile, "credential.error_no_keyfile")
	}
	data, err := e.readFile(e.path)
	if err != nil {
		return newValidationError(model.KindKeyFile, "credential.error_keyfile_read", err)
	}
	fk, err := key.NewFileKey(e.path, data)
	if err != nil {
		return newValidationError(model.KindKeyFile, "credential.error_keyfile_invalid", err)
	}
	e.fileKey = fk
	return nil
}

// ContributeTo adds the file-derived sub-key to the draft. Validate must
// have succeeded first.
func (e *KeyFileEditor) ContributeTo(draft *key.CompositeKey) error {
	if e.fileKey == nil {
		return newValidationError(model.KindKeyFile, "credential.error_no_keyfile")
	}
	draft.AddKey(e.fileKey)
	return nil
}

// Reset clears the selected path and any derived key material.
func (e *KeyFileEditor) Reset() {
	e.path = ""
	e.fileKey = nil
}
