// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "testing"

func TestKeyKindString(t *testing.T) {
	cases := []struct {
		kind KeyKind
		want string
	}{
		{KindPassword, "password"},
		{KindKeyFile, "keyfile"},
		{KindChallengeResponse, "challenge-response"},
		{KeyKind(42), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("KeyKind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestDatabaseRecordString(t *testing.T) {
	d := DatabaseRecord{Name: "personal", Path: "/home/u/personal.vault"}
	if got := d.String(); got != "personal (/home/u/personal.vault)" {
		t.Errorf("unexpected String(): %q", got)
	}
	d.Path = ""
	if got := d.String(); got != "personal" {
		t.Errorf("expected bare name without path, got %q", got)
	}
}
