// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/vaultmaster/vaultmaster/internal/model"

// Store defines the registry operations used by the CLI and the database
// collaborator. Implementations delegate to the Bun layer.
type Store interface {
	// AddDatabase registers a managed database and returns its row ID.
	AddDatabase(publicID, name, path string) (int, error)
	GetDatabase(name string) (*model.DatabaseRecord, error)
	GetDatabaseByPublicID(publicID string) (*model.DatabaseRecord, error)
	GetAllDatabases() ([]model.DatabaseRecord, error)
	DeleteDatabase(id int) error

	// UpdateKeyDigest records the digest and kinds of a freshly committed
	// composite key.
	UpdateKeyDigest(publicID, digest, kinds string) error
	// TouchModified bumps the modified timestamp for a database.
	TouchModified(publicID string) error

	// Audit trail
	LogAction(database, action, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)

	// Backup helpers
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(*model.BackupData) error
}
