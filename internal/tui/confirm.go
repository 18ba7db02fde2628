// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import "sync"

// confirmKind identifies which question the save pipeline is asking.
type confirmKind int

const (
	confirmNoPassword confirmKind = iota
	confirmWeakPassword
)

// modalConfirmer bridges the blocking confirmations of the save pipeline
// into the bubbletea update loop. Save runs inside a tea.Cmd goroutine;
// each confirmation parks that goroutine on the answer channel until the
// modal resolves it. The confirmer lives for the whole editor session and
// a save may be retried after a decline, so begin hands out a fresh
// channel pair per save; the save command closes only its own request
// channel when the pipeline returns.
type modalConfirmer struct {
	mu       sync.Mutex
	requests chan confirmKind
	answers  chan bool
}

func newModalConfirmer() *modalConfirmer {
	return &modalConfirmer{}
}

// begin arms the confirmer for one save and returns the channel pair the
// editor should listen and answer on.
func (c *modalConfirmer) begin() (chan confirmKind, chan bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = make(chan confirmKind)
	c.answers = make(chan bool)
	return c.requests, c.answers
}

func (c *modalConfirmer) ConfirmNoPassword() bool { return c.ask(confirmNoPassword) }

func (c *modalConfirmer) ConfirmWeakPassword() bool { return c.ask(confirmWeakPassword) }

func (c *modalConfirmer) ask(k confirmKind) bool {
	c.mu.Lock()
	req, ans := c.requests, c.answers
	c.mu.Unlock()
	req <- k
	return <-ans
}
