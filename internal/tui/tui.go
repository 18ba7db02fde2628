// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaultmaster/vaultmaster/internal/credential"
	"github.com/vaultmaster/vaultmaster/internal/key"
)

// RunCredentialEditor starts the interactive credential editor for one
// database session. The responder may be nil when no hardware key is
// attached; the hardware key section is then read-only.
func RunCredentialEditor(db credential.Database, qu credential.QuickUnlock, settings credential.Settings, readFile credential.FileReader, responder key.Responder) error {
	conf := newModalConfirmer()
	ctrl := credential.NewController(db, qu, conf, settings, readFile)
	m := newCredentialFormModel(ctrl, conf, responder)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
