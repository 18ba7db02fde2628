// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package quality scores password strength and evaluates it against the
// configured policy. Scoring is delegated to zxcvbn, whose 0..4 scale maps
// directly onto the Score levels below.
package quality

import (
	"github.com/nbutton23/zxcvbn-go"
)

// Score is an ordered password strength level.
type Score int

const (
	// Bad is the weakest score.
	Bad Score = iota
	// Poor passwords crack in minutes.
	Poor
	// Weak passwords crack in days.
	Weak
	// Good is the advisory threshold; below it the user is warned.
	Good
	// Excellent is the strongest score.
	Excellent
)

// String returns the display name of the score.
func (s Score) String() string {
	switch s {
	case Bad:
		return "bad"
	case Poor:
		return "poor"
	case Weak:
		return "weak"
	case Good:
		return "good"
	case Excellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// Evaluate scores the candidate password. An empty password scores Bad;
// the caller decides whether empty passwords are acceptable at all.
func Evaluate(password string) Score {
	if password == "" {
		return Bad
	}
	return ClampMinimum(zxcvbn.PasswordStrength(password, nil).Score)
}

// ClampMinimum clamps a configured integer quality to the valid score range.
func ClampMinimum(n int) Score {
	if n < int(Bad) {
		return Bad
	}
	if n > int(Excellent) {
		return Excellent
	}
	return Score(n)
}
