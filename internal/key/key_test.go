// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package key

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vaultmaster/vaultmaster/internal/model"
)

// fakeResponder answers every challenge with a fixed response.
type fakeResponder struct {
	resp []byte
	err  error
}

func (f *fakeResponder) Challenge(challenge []byte) ([]byte, error) { return f.resp, f.err }
func (f *fakeResponder) Name() string                               { return "fake token" }

func TestPasswordKeyDeterministic(t *testing.T) {
	a := NewPasswordKey("hunter2")
	b := NewPasswordKey("hunter2")
	if !bytes.Equal(a.RawKey(), b.RawKey()) {
		t.Fatal("same password must derive identical raw material")
	}
	c := NewPasswordKey("hunter3")
	if bytes.Equal(a.RawKey(), c.RawKey()) {
		t.Fatal("different passwords must not collide")
	}
	if a.Kind() != model.KindPassword {
		t.Fatalf("unexpected kind: %v", a.Kind())
	}
}

func TestFileKeyHexContent(t *testing.T) {
	hexData := []byte("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff\n")
	k, err := NewFileKey("a.key", hexData)
	if err != nil {
		t.Fatalf("NewFileKey returned error: %v", err)
	}
	if len(k.RawKey()) != 32 {
		t.Fatalf("expected 32 bytes of decoded material, got %d", len(k.RawKey()))
	}
	if k.RawKey()[0] != 0x00 || k.RawKey()[1] != 0x11 {
		t.Fatal("hex content was not decoded literally")
	}
}

func TestFileKeyArbitraryContentIsHashed(t *testing.T) {
	k, err := NewFileKey("b.key", []byte("not hex at all"))
	if err != nil {
		t.Fatalf("NewFileKey returned error: %v", err)
	}
	if len(k.RawKey()) != 32 {
		t.Fatalf("expected 32-byte digest, got %d", len(k.RawKey()))
	}
	if k.Name() != "b.key" {
		t.Fatalf("unexpected name: %q", k.Name())
	}
}

func TestFileKeyEmpty(t *testing.T) {
	if _, err := NewFileKey("empty.key", nil); err == nil {
		t.Fatal("expected error for empty key file")
	}
}

func TestChallengeResponseKeyPerform(t *testing.T) {
	k := NewChallengeResponseKey(&fakeResponder{resp: []byte("response")})
	if len(k.RawKey()) != 0 {
		t.Fatal("raw material must be empty before Perform")
	}
	if err := k.Perform([]byte("challenge")); err != nil {
		t.Fatalf("Perform returned error: %v", err)
	}
	if !bytes.Equal(k.RawKey(), []byte("response")) {
		t.Fatal("raw material must hold the token response")
	}
}

func TestChallengeResponseKeyPerformError(t *testing.T) {
	k := NewChallengeResponseKey(&fakeResponder{err: errors.New("no touch")})
	if err := k.Perform([]byte("challenge")); err == nil {
		t.Fatal("expected error from failing responder")
	}
}

func TestCompositeKeyOrderingAndDigest(t *testing.T) {
	ck := NewCompositeKey()
	if !ck.IsEmpty() {
		t.Fatal("new composite key must be empty")
	}

	ck.AddKey(NewPasswordKey("pw"))
	fk, _ := NewFileKey("f.key", []byte("data"))
	ck.AddKey(fk)
	cr := NewChallengeResponseKey(&fakeResponder{resp: []byte("r")})
	_ = cr.Perform(nil)
	ck.AddChallengeResponseKey(cr)

	if ck.IsEmpty() {
		t.Fatal("composite key with keys must not be empty")
	}
	if got := len(ck.Keys()); got != 2 {
		t.Fatalf("expected 2 sub-keys, got %d", got)
	}
	if got := len(ck.ChallengeResponseKeys()); got != 1 {
		t.Fatalf("expected 1 challenge-response key, got %d", got)
	}

	kinds := ck.Kinds()
	want := []model.KeyKind{model.KindPassword, model.KindKeyFile, model.KindChallengeResponse}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], k)
		}
	}

	// Digest is stable for identical material and differs otherwise.
	other := NewCompositeKey()
	other.AddKey(NewPasswordKey("pw"))
	if ck.Digest() == other.Digest() {
		t.Fatal("digests of different key sets must differ")
	}
	same := NewCompositeKey()
	same.AddKey(NewPasswordKey("pw"))
	if other.Digest() != same.Digest() {
		t.Fatal("digest must be deterministic")
	}
}

func TestCompositeKeyIgnoresNil(t *testing.T) {
	ck := NewCompositeKey()
	ck.AddKey(nil)
	ck.AddChallengeResponseKey(nil)
	if !ck.IsEmpty() {
		t.Fatal("nil keys must be ignored")
	}
}
