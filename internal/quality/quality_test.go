// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package quality

import "testing"

func TestClampMinimum(t *testing.T) {
	cases := []struct {
		in   int
		want Score
	}{
		{-3, Bad},
		{0, Bad},
		{2, Weak},
		{4, Excellent},
		{17, Excellent},
	}
	for _, c := range cases {
		if got := ClampMinimum(c.in); got != c.want {
			t.Errorf("ClampMinimum(%d) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEvaluateOrdering(t *testing.T) {
	if Evaluate("") != Bad {
		t.Fatal("empty password must score Bad")
	}
	weak := Evaluate("hunter2")
	strong := Evaluate("correct horse battery staple is long")
	if weak >= strong {
		t.Fatalf("expected %q (%v) to score below %q (%v)", "hunter2", weak, "long passphrase", strong)
	}
	if strong < Good {
		t.Fatalf("expected a long passphrase to score at least Good, got %v", strong)
	}
}

func TestScoreString(t *testing.T) {
	if Bad.String() != "bad" || Excellent.String() != "excellent" {
		t.Fatal("unexpected score names")
	}
	if Score(9).String() != "unknown" {
		t.Fatal("out-of-range score must stringify as unknown")
	}
}
