// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN returned error: %v", err)
	}
	return s
}

func TestAddAndGetDatabase(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddDatabase("pub-1", "personal", "/vaults/personal.vault")
	if err != nil {
		t.Fatalf("AddDatabase returned error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero row id")
	}

	rec, err := s.GetDatabase("personal")
	if err != nil {
		t.Fatalf("GetDatabase returned error: %v", err)
	}
	if rec.PublicID != "pub-1" || rec.Path != "/vaults/personal.vault" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	byID, err := s.GetDatabaseByPublicID("pub-1")
	if err != nil {
		t.Fatalf("GetDatabaseByPublicID returned error: %v", err)
	}
	if byID.Name != "personal" {
		t.Fatalf("unexpected record by public id: %+v", byID)
	}
}

func TestAddDatabaseDuplicateName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AddDatabase("pub-1", "personal", ""); err != nil {
		t.Fatalf("AddDatabase returned error: %v", err)
	}
	if _, err := s.AddDatabase("pub-2", "personal", ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetDatabaseNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetDatabase("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateKeyDigest(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.AddDatabase("pub-1", "personal", "")

	if err := s.UpdateKeyDigest("pub-1", "abc123", "password,keyfile"); err != nil {
		t.Fatalf("UpdateKeyDigest returned error: %v", err)
	}
	rec, _ := s.GetDatabase("personal")
	if rec.KeyDigest != "abc123" || rec.KeyKinds != "password,keyfile" {
		t.Fatalf("digest not updated: %+v", rec)
	}
	if rec.ModifiedAt.IsZero() {
		t.Fatal("UpdateKeyDigest must bump the modified timestamp")
	}

	if err := s.UpdateKeyDigest("no-such-id", "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown public id, got %v", err)
	}
}

func TestDeleteDatabase(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddDatabase("pub-1", "personal", "")

	if err := s.DeleteDatabase(id); err != nil {
		t.Fatalf("DeleteDatabase returned error: %v", err)
	}
	if _, err := s.GetDatabase("personal"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteDatabaseAuditsName(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddDatabase("pub-1", "personal", "")

	if err := s.DeleteDatabase(id); err != nil {
		t.Fatalf("DeleteDatabase returned error: %v", err)
	}
	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries returned error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected audit entries")
	}
	if entries[0].Action != "REMOVE" || entries[0].Database != "personal" {
		t.Fatalf("delete must audit the database name, got %+v", entries[0])
	}
}

func TestAuditTrail(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.AddDatabase("pub-1", "personal", "")

	if err := s.LogAction("personal", "REKEY", "kinds: password"); err != nil {
		t.Fatalf("LogAction returned error: %v", err)
	}

	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries returned error: %v", err)
	}
	// AddDatabase logs REGISTER, so the REKEY entry is newest.
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 audit entries, got %d", len(entries))
	}
	if entries[0].Action != "REKEY" || entries[0].Database != "personal" {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
}

func TestGetAllDatabasesOrdering(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.AddDatabase("pub-2", "work", "")
	_, _ = s.AddDatabase("pub-1", "personal", "")

	recs, err := s.GetAllDatabases()
	if err != nil {
		t.Fatalf("GetAllDatabases returned error: %v", err)
	}
	if len(recs) != 2 || recs[0].Name != "personal" || recs[1].Name != "work" {
		t.Fatalf("expected name ordering, got %+v", recs)
	}
}

func TestInitDBSetsPackageStore(t *testing.T) {
	if err := InitDB("sqlite", ":memory:"); err != nil {
		t.Fatalf("InitDB returned error: %v", err)
	}
	if !IsInitialized() || Get() == nil {
		t.Fatal("package-level store must be set after InitDB")
	}
}
