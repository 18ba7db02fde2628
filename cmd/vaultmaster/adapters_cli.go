// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vaultmaster/vaultmaster/internal/i18n"
)

// promptForConfirmation displays a prompt and reads a line from stdin.
func promptForConfirmation(prompt string) string {
	fmt.Print(prompt + " [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

// readPassword reads a password from the terminal without echoing it.
// Falls back to plain line reading when stdin is not a terminal, so the
// command stays scriptable.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// cliConfirmer answers the save pipeline's questions on the terminal.
// With assumeYes set every question is answered positively, which keeps
// the rekey command usable in scripts.
type cliConfirmer struct {
	assumeYes bool
}

func (c cliConfirmer) ConfirmNoPassword() bool {
	if c.assumeYes {
		return true
	}
	return promptForConfirmation(i18n.T("prompt.no_password")) == "y"
}

func (c cliConfirmer) ConfirmWeakPassword() bool {
	if c.assumeYes {
		return true
	}
	return promptForConfirmation(i18n.T("prompt.weak_password")) == "y"
}
