// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the shared entities passed between the credential
// core, the metadata store, and the UIs.
package model

import "time"

// KeyKind identifies one credential source contributing to a composite key.
type KeyKind int

const (
	// KindPassword is a password-derived sub-key.
	KindPassword KeyKind = iota
	// KindKeyFile is a key-file-derived sub-key.
	KindKeyFile
	// KindChallengeResponse is key material obtained from a hardware token.
	KindChallengeResponse
)

// String returns the stable lowercase name used in the store and audit log.
func (k KeyKind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindKeyFile:
		return "keyfile"
	case KindChallengeResponse:
		return "challenge-response"
	default:
		return "unknown"
	}
}

// DatabaseRecord is the registry row for a managed encrypted database.
// The record never holds key material; KeyDigest is a one-way digest used to
// verify supplied credentials before a rekey.
type DatabaseRecord struct {
	ID         int
	PublicID   string
	Name       string
	Path       string
	KeyDigest  string
	KeyKinds   string // comma-separated KeyKind names, e.g. "password,keyfile"
	ModifiedAt time.Time
}

// String returns the name@path representation used in listings.
func (d DatabaseRecord) String() string {
	if d.Path == "" {
		return d.Name
	}
	return d.Name + " (" + d.Path + ")"
}

// AuditLogEntry records a single credential-management action.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Database  string
	Action    string
	Details   string
}

// BackupData aggregates the registry contents for export and restore.
type BackupData struct {
	Databases []DatabaseRecord `json:"databases"`
	AuditLog  []AuditLogEntry  `json:"audit_log"`
}
