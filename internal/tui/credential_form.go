// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaultmaster/vaultmaster/internal/credential"
	"github.com/vaultmaster/vaultmaster/internal/i18n"
	"github.com/vaultmaster/vaultmaster/internal/key"
	"github.com/vaultmaster/vaultmaster/internal/quality"
)

// Sections of the credential editor, in focus order.
const (
	sectionPassword = iota
	sectionKeyFile
	sectionChallenge
	sectionCount
)

// Text inputs. The repeat field shares the password section's focus.
const (
	inputPassword = iota
	inputRepeat
	inputKeyFile
	inputCount
)

type saveDoneMsg struct{ err error }

type confirmRequestMsg struct{ kind confirmKind }

type credentialFormModel struct {
	controller *credential.Controller
	confirmer  *modalConfirmer
	responder  key.Responder // nil when no hardware key is attached

	inputs       []textinput.Model
	focusSection int
	focusRepeat  bool // focus is on the repeat field within the password section

	// Channel pair of the save currently in flight, armed by beginSave.
	saveReq chan confirmKind
	saveAns chan bool

	saving        bool
	confirming    bool
	pendingKind   confirmKind
	confirmCursor int
	done          bool
	status        string
	err           error
	width, height int
}

// newCredentialFormModel builds the editor for one credential-edit session.
// The confirmer must be the same instance wired into the controller.
func newCredentialFormModel(ctrl *credential.Controller, conf *modalConfirmer, responder key.Responder) *credentialFormModel {
	m := &credentialFormModel{
		controller: ctrl,
		confirmer:  conf,
		responder:  responder,
		inputs:     make([]textinput.Model, inputCount),
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 256
		t.Width = 40

		switch i {
		case inputPassword:
			t.Prompt = i18n.T("prompt.new_password")
			t.EchoMode = textinput.EchoPassword
		case inputRepeat:
			t.Prompt = i18n.T("prompt.repeat_password")
			t.EchoMode = textinput.EchoPassword
		case inputKeyFile:
			t.Prompt = i18n.T("prompt.keyfile_path")
			t.Placeholder = "/path/to/key.file"
		}
		m.inputs[i] = t
	}

	return m
}

func (m *credentialFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// saveCmd runs the save pipeline off the update loop. Closing this save's
// request channel releases its confirmation listener once the pipeline
// returns; a later save gets its own pair from beginSave.
func (m *credentialFormModel) saveCmd(req chan confirmKind) tea.Cmd {
	ctrl := m.controller
	return func() tea.Msg {
		err := ctrl.Save()
		close(req)
		return saveDoneMsg{err: err}
	}
}

// listenForConfirm forwards the next blocking confirmation request of the
// given save into the update loop. Returns nil once that save has finished.
func (m *credentialFormModel) listenForConfirm(req chan confirmKind) tea.Cmd {
	return func() tea.Msg {
		k, ok := <-req
		if !ok {
			return nil
		}
		return confirmRequestMsg{kind: k}
	}
}

func (m *credentialFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case confirmRequestMsg:
		m.confirming = true
		m.pendingKind = msg.kind
		m.confirmCursor = 0 // Default to No
		return m, nil

	case saveDoneMsg:
		m.saving = false
		m.err = nil
		switch {
		case msg.err == nil:
			m.done = true
			m.status = i18n.T("tui.saved")
			m.syncInputsFromEditors()
		case errors.Is(msg.err, credential.ErrUserDeclined):
			m.status = i18n.T("rekey.declined")
		default:
			m.err = msg.err
		}
		return m, nil
	}

	// The confirmation modal swallows all key input while visible.
	if m.confirming {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.saving {
			return m, nil // no edits while the pipeline runs
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			if m.done {
				return m, tea.Quit
			}
			if msg.String() == "q" && m.focusedInputActive() {
				break // plain character for the focused input
			}
			m.controller.Discard()
			return m, tea.Quit
		case "tab", "down":
			m.cycleFocus(1)
			return m, m.refocusInputs()
		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, m.refocusInputs()
		case "ctrl+t":
			m.togglePasswordVisibility()
			return m, nil
		case "ctrl+s":
			return m.beginSave()
		case "e":
			if !m.focusedInputActive() {
				m.beginEditFocused()
				return m, m.refocusInputs()
			}
		case "r":
			if !m.focusedInputActive() {
				m.removeFocused()
				return m, nil
			}
		}
	}

	cmd := m.updateInputs(msg)
	m.pushInputValues()
	return m, cmd
}

func (m *credentialFormModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "right", "tab", "l":
		m.confirmCursor = 1 // Yes
	case "left", "shift+tab", "h":
		m.confirmCursor = 0 // No
	case "ctrl+c":
		// Release the parked save goroutine before quitting.
		m.confirming = false
		m.saveAns <- false
		return m, tea.Quit
	case "q", "esc":
		m.confirming = false
		m.saveAns <- false
		return m, m.listenForConfirm(m.saveReq)
	case "enter":
		m.confirming = false
		m.saveAns <- m.confirmCursor == 1
		return m, m.listenForConfirm(m.saveReq)
	}
	return m, nil
}

// beginSave hands the editor values to the controller and launches the
// pipeline plus the confirmation listener.
func (m *credentialFormModel) beginSave() (tea.Model, tea.Cmd) {
	m.pushInputValues()
	m.saving = true
	m.status = ""
	m.err = nil
	m.saveReq, m.saveAns = m.confirmer.begin()
	return m, tea.Batch(m.saveCmd(m.saveReq), m.listenForConfirm(m.saveReq))
}

// focusedInputActive reports whether a text input currently owns keystrokes.
func (m *credentialFormModel) focusedInputActive() bool {
	switch m.focusSection {
	case sectionPassword:
		return m.controller.Password().State() == credential.StateEdit
	case sectionKeyFile:
		return m.controller.KeyFile().State() == credential.StateEdit
	}
	return false
}

func (m *credentialFormModel) beginEditFocused() {
	switch m.focusSection {
	case sectionPassword:
		m.controller.Password().BeginEdit()
	case sectionKeyFile:
		m.controller.KeyFile().BeginEdit()
	case sectionChallenge:
		if m.responder != nil {
			m.controller.ChallengeResponse().BeginEdit()
			m.controller.ChallengeResponse().SetResponder(m.responder)
		}
	}
}

func (m *credentialFormModel) removeFocused() {
	switch m.focusSection {
	case sectionPassword:
		m.controller.Password().Remove()
		m.inputs[inputPassword].SetValue("")
		m.inputs[inputRepeat].SetValue("")
	case sectionKeyFile:
		m.controller.KeyFile().Remove()
		m.inputs[inputKeyFile].SetValue("")
	case sectionChallenge:
		m.controller.ChallengeResponse().Remove()
	}
}

func (m *credentialFormModel) cycleFocus(dir int) {
	// Within the password section the repeat field is an extra stop.
	if m.focusSection == sectionPassword && m.focusedInputActive() {
		if dir > 0 && !m.focusRepeat {
			m.focusRepeat = true
			return
		}
		if dir < 0 && m.focusRepeat {
			m.focusRepeat = false
			return
		}
	}
	m.focusRepeat = false
	m.focusSection = (m.focusSection + dir + sectionCount) % sectionCount
	if dir < 0 && m.focusSection == sectionPassword && m.focusedInputActive() {
		m.focusRepeat = true
	}
}

// refocusInputs focuses the input belonging to the focused section, if any.
func (m *credentialFormModel) refocusInputs() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].TextStyle = lipgloss.NewStyle()
	}
	if !m.focusedInputActive() {
		return nil
	}
	idx := inputKeyFile
	if m.focusSection == sectionPassword {
		idx = inputPassword
		if m.focusRepeat {
			idx = inputRepeat
		}
	}
	cmd = m.inputs[idx].Focus()
	m.inputs[idx].TextStyle = focusedStyle
	return cmd
}

func (m *credentialFormModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

// pushInputValues mirrors the text inputs into the component editors.
func (m *credentialFormModel) pushInputValues() {
	if m.controller.Password().State() == credential.StateEdit {
		m.controller.Password().SetPassword(m.inputs[inputPassword].Value(), m.inputs[inputRepeat].Value())
	}
	if m.controller.KeyFile().State() == credential.StateEdit {
		m.controller.KeyFile().SetPath(strings.TrimSpace(m.inputs[inputKeyFile].Value()))
	}
}

// syncInputsFromEditors clears the inputs after the editors were reset.
func (m *credentialFormModel) syncInputsFromEditors() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}

func (m *credentialFormModel) togglePasswordVisibility() {
	visible := !m.controller.Password().PasswordVisible()
	m.controller.Password().SetPasswordVisible(visible)
	echo := textinput.EchoPassword
	if visible {
		echo = textinput.EchoNormal
	}
	m.inputs[inputPassword].EchoMode = echo
	m.inputs[inputRepeat].EchoMode = echo
}

func (m *credentialFormModel) viewConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.confirm_title")))
	b.WriteString("\n\n")
	question := i18n.T("prompt.no_password")
	if m.pendingKind == confirmWeakPassword {
		question = i18n.T("prompt.weak_password")
	}
	b.WriteString(specialStyle.Render(question))
	b.WriteString("\n\n")

	var yesButton, noButton string
	if m.confirmCursor == 1 { // Yes
		yesButton = activeButtonStyle.Render(i18n.T("tui.yes"))
		noButton = buttonStyle.Render(i18n.T("tui.no_cancel"))
	} else { // No
		yesButton = buttonStyle.Render(i18n.T("tui.yes"))
		noButton = activeButtonStyle.Render(i18n.T("tui.no_cancel"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, noButton, "  ", yesButton))
	b.WriteString("\n" + helpStyle.Render(i18n.T("tui.help_modal")))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Left, lipgloss.Center,
		dialogBoxStyle.Render(b.String()),
	)
}

func (m *credentialFormModel) sectionHeader(section int, title string, state credential.State, added bool) string {
	marker := "  "
	if m.focusSection == section {
		marker = "> "
	}
	var label string
	switch state {
	case credential.StateEdit:
		label = i18n.T("tui.state_edit")
	case credential.StateLeaveOrRemove:
		label = i18n.T("tui.state_keep")
	default:
		if added {
			label = i18n.T("tui.state_removed")
		} else {
			label = i18n.T("tui.state_add")
		}
	}
	return marker + sectionStyle.Render(title) + " " + helpStyle.Render("["+label+"]")
}

func (m *credentialFormModel) View() string {
	if m.confirming {
		return m.viewConfirm()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🔐 " + i18n.T("tui.editor_title")))
	b.WriteString("\n\n")

	pw := m.controller.Password()
	b.WriteString(m.sectionHeader(sectionPassword, i18n.T("tui.section_password"), pw.State(), pw.ComponentAdded()))
	b.WriteString("\n")
	if pw.State() == credential.StateEdit {
		b.WriteString("  " + m.inputs[inputPassword].View() + "\n")
		b.WriteString("  " + m.inputs[inputRepeat].View() + "\n")
		if !pw.IsEmpty() {
			score := quality.Evaluate(m.inputs[inputPassword].Value())
			meter := fmt.Sprintf(i18n.T("tui.quality_label"), score)
			if score < quality.Good {
				b.WriteString("  " + specialStyle.Render(meter) + "\n")
			} else {
				b.WriteString("  " + successStyle.Render(meter) + "\n")
			}
		}
	}
	b.WriteString("\n")

	kf := m.controller.KeyFile()
	b.WriteString(m.sectionHeader(sectionKeyFile, i18n.T("tui.section_keyfile"), kf.State(), kf.ComponentAdded()))
	b.WriteString("\n")
	if kf.State() == credential.StateEdit {
		b.WriteString("  " + m.inputs[inputKeyFile].View() + "\n")
	}
	b.WriteString("\n")

	cr := m.controller.ChallengeResponse()
	b.WriteString(m.sectionHeader(sectionChallenge, i18n.T("tui.section_challenge"), cr.State(), cr.ComponentAdded()))
	b.WriteString("\n")
	if cr.State() == credential.StateEdit && cr.Responder() != nil {
		b.WriteString("  " + cr.Responder().Name() + "\n")
	}

	if m.saving {
		b.WriteString("\n" + specialStyle.Render(i18n.T("tui.saving")) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + successStyle.Render(m.status) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf(i18n.T("tui.save_failed"), m.err)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(i18n.T("tui.help_editor")))
	return b.String()
}
