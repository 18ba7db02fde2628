// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/vaultmaster/vaultmaster/internal/model"
)

// DatabaseModel maps the `databases` table for Bun queries.
type DatabaseModel struct {
	bun.BaseModel `bun:"table:databases"`
	ID            int            `bun:"id,pk,autoincrement"`
	PublicID      string         `bun:"public_id"`
	Name          string         `bun:"name"`
	Path          sql.NullString `bun:"path"`
	KeyDigest     string         `bun:"key_digest"`
	KeyKinds      string         `bun:"key_kinds"`
	ModifiedAt    sql.NullTime   `bun:"modified_at"`
}

// AuditLogModel maps the `audit_log` table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	DatabaseName  string `bun:"database_name"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// bunStore is the Bun-backed implementation of the Store interface.
type bunStore struct {
	db  *sql.DB
	bun *bun.DB
}

func databaseModelToRecord(m DatabaseModel) model.DatabaseRecord {
	rec := model.DatabaseRecord{
		ID:        m.ID,
		PublicID:  m.PublicID,
		Name:      m.Name,
		KeyDigest: m.KeyDigest,
		KeyKinds:  m.KeyKinds,
	}
	if m.Path.Valid {
		rec.Path = m.Path.String
	}
	if m.ModifiedAt.Valid {
		rec.ModifiedAt = m.ModifiedAt.Time
	}
	return rec
}

// AddDatabase registers a managed database.
func (s *bunStore) AddDatabase(publicID, name, path string) (int, error) {
	ctx := context.Background()
	m := &DatabaseModel{
		PublicID: publicID,
		Name:     name,
		Path:     sql.NullString{String: path, Valid: path != ""},
	}
	res, err := s.bun.NewInsert().Model(m).Exec(ctx)
	if err != nil {
		return 0, mapDBError(err)
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		m.ID = int(id)
	}
	dbLogf("db: registered database %s (%s)", name, publicID)
	_ = s.LogAction(name, "REGISTER", fmt.Sprintf("public_id: %s", publicID))
	return m.ID, nil
}

// GetDatabase retrieves a registry record by name.
func (s *bunStore) GetDatabase(name string) (*model.DatabaseRecord, error) {
	return s.getDatabaseWhere("name = ?", name)
}

// GetDatabaseByPublicID retrieves a registry record by public identity.
func (s *bunStore) GetDatabaseByPublicID(publicID string) (*model.DatabaseRecord, error) {
	return s.getDatabaseWhere("public_id = ?", publicID)
}

func (s *bunStore) getDatabaseWhere(clause string, arg any) (*model.DatabaseRecord, error) {
	ctx := context.Background()
	var m DatabaseModel
	err := s.bun.NewSelect().Model(&m).Where(clause, arg).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec := databaseModelToRecord(m)
	return &rec, nil
}

// GetAllDatabases retrieves every registry record ordered by name.
func (s *bunStore) GetAllDatabases() ([]model.DatabaseRecord, error) {
	ctx := context.Background()
	var ms []DatabaseModel
	if err := s.bun.NewSelect().Model(&ms).Order("name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	recs := make([]model.DatabaseRecord, 0, len(ms))
	for _, m := range ms {
		recs = append(recs, databaseModelToRecord(m))
	}
	return recs, nil
}

// DeleteDatabase removes a registry record by row ID.
func (s *bunStore) DeleteDatabase(id int) error {
	ctx := context.Background()
	var name string
	err := s.bun.NewSelect().Model((*DatabaseModel)(nil)).
		Column("name").
		Where("id = ?", id).
		Scan(ctx, &name)
	details := fmt.Sprintf("id: %d", id)
	if err == nil {
		details = fmt.Sprintf("database: %s", name)
	}
	if _, err := s.bun.NewDelete().Model((*DatabaseModel)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return err
	}
	_ = s.LogAction(name, "REMOVE", details)
	return nil
}

// UpdateKeyDigest records the digest and kinds of a freshly committed
// composite key and bumps the modified timestamp.
func (s *bunStore) UpdateKeyDigest(publicID, digest, kinds string) error {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*DatabaseModel)(nil)).
		Set("key_digest = ?", digest).
		Set("key_kinds = ?", kinds).
		Set("modified_at = ?", time.Now().UTC()).
		Where("public_id = ?", publicID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchModified bumps the modified timestamp for a database.
func (s *bunStore) TouchModified(publicID string) error {
	ctx := context.Background()
	_, err := s.bun.NewUpdate().Model((*DatabaseModel)(nil)).
		Set("modified_at = ?", time.Now().UTC()).
		Where("public_id = ?", publicID).
		Exec(ctx)
	return err
}

// LogAction appends an audit trail entry.
func (s *bunStore) LogAction(database, action, details string) error {
	ctx := context.Background()
	m := &AuditLogModel{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DatabaseName: database,
		Action:       action,
		Details:      details,
	}
	_, err := s.bun.NewInsert().Model(m).Exec(ctx)
	return err
}

// GetAllAuditLogEntries retrieves the audit trail, newest first.
func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var ms []AuditLogModel
	if err := s.bun.NewSelect().Model(&ms).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	entries := make([]model.AuditLogEntry, 0, len(ms))
	for _, m := range ms {
		entries = append(entries, model.AuditLogEntry{
			ID:        m.ID,
			Timestamp: m.Timestamp,
			Database:  m.DatabaseName,
			Action:    m.Action,
			Details:   m.Details,
		})
	}
	return entries, nil
}

// ExportDataForBackup snapshots the registry and audit trail.
func (s *bunStore) ExportDataForBackup() (*model.BackupData, error) {
	dbs, err := s.GetAllDatabases()
	if err != nil {
		return nil, err
	}
	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		return nil, err
	}
	return &model.BackupData{Databases: dbs, AuditLog: entries}, nil
}

// ImportDataFromBackup replaces the registry contents with the backup within
// a single transaction.
func (s *bunStore) ImportDataFromBackup(data *model.BackupData) error {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Bun requires a WHERE clause for deletes; use raw statements to clear.
	if _, err := tx.ExecContext(ctx, "DELETE FROM databases"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM audit_log"); err != nil {
		return err
	}

	for _, rec := range data.Databases {
		m := &DatabaseModel{
			PublicID:  rec.PublicID,
			Name:      rec.Name,
			Path:      sql.NullString{String: rec.Path, Valid: rec.Path != ""},
			KeyDigest: rec.KeyDigest,
			KeyKinds:  rec.KeyKinds,
		}
		if !rec.ModifiedAt.IsZero() {
			m.ModifiedAt = sql.NullTime{Time: rec.ModifiedAt, Valid: true}
		}
		if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
			return mapDBError(err)
		}
	}
	for _, e := range data.AuditLog {
		m := &AuditLogModel{
			Timestamp:    e.Timestamp,
			DatabaseName: e.Database,
			Action:       e.Action,
			Details:      e.Details,
		}
		if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
			return err
		}
	}

	return tx.Commit()
}
