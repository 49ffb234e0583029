// Package history manages the applied-migrations ledger persisted inside
// the target sqlite database.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// LedgerTable is the reserved table name for the ledger. The leading
// underscore keeps it out of the way of user schema.
const LedgerTable = "_migrate_ledger"

// Entry is one row of the ledger: a migration that is currently applied.
// Seq is a monotonically increasing apply-sequence counter; down plans
// revert in descending Seq order, so partial rollbacks follow the true
// apply order even when it diverges from version order.
type Entry struct {
	Seq       int64
	Version   int64
	Name      string
	Checksum  string
	AppliedAt time.Time
}

// Store manages the ledger over a single open database connection. Its
// mutation operations run only inside a caller-supplied transaction and
// never commit.
type Store struct {
	db *sql.DB
}

// NewStore creates a ledger store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the ledger table if it is absent. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS ` + LedgerTable + ` (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL UNIQUE,
			name TEXT NOT NULL,
			checksum TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create ledger table: %w", err)
	}
	return nil
}

// AppliedEntries returns a read-only snapshot of the ledger, ordered
// ascending by version.
func (s *Store) AppliedEntries(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT seq, version, name, checksum, applied_at
		FROM ` + LedgerTable + `
		ORDER BY version ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Seq, &entry.Version, &entry.Name, &entry.Checksum, &entry.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// RecordApplied inserts a ledger row for version within tx. The planner
// never requests an already-applied version, but the store enforces the
// invariant independently and fails with AlreadyAppliedError.
func (s *Store) RecordApplied(ctx context.Context, tx *sql.Tx, version int64, name, checksum string, appliedAt time.Time) error {
	var count int
	query := `SELECT COUNT(1) FROM ` + LedgerTable + ` WHERE version = ?`
	if err := tx.QueryRowContext(ctx, query, version).Scan(&count); err != nil {
		return fmt.Errorf("failed to check ledger for version %d: %w", version, err)
	}
	if count > 0 {
		return &AlreadyAppliedError{Version: version}
	}

	insertSQL := `
		INSERT INTO ` + LedgerTable + ` (version, name, checksum, applied_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertSQL, version, name, checksum, appliedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return nil
}

// RecordReverted deletes the ledger row for version within tx. Fails with
// NotAppliedError when no such row exists.
func (s *Store) RecordReverted(ctx context.Context, tx *sql.Tx, version int64) error {
	deleteSQL := `DELETE FROM ` + LedgerTable + ` WHERE version = ?`
	result, err := tx.ExecContext(ctx, deleteSQL, version)
	if err != nil {
		return fmt.Errorf("failed to remove ledger entry for version %d: %w", version, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for version %d: %w", version, err)
	}
	if affected == 0 {
		return &NotAppliedError{Version: version}
	}
	return nil
}

// Checksum calculates the sha256 checksum recorded for a migration script.
func Checksum(migrationSQL string) string {
	hash := sha256.Sum256([]byte(migrationSQL))
	return hex.EncodeToString(hash[:])
}
