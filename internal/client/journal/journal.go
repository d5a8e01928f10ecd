// Package journal keeps a local SQLite record of the capsules created from
// this machine, so they can be listed even when the server keeps no
// per-sender index.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/client/journal/migrations"
	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Entry struct {
	CapsuleID       string
	Seed            string
	Sender          string
	MessageTitle    string
	PasswordHint    string
	UnlockTimestamp int64
	CreatedAt       int64
	FeePaid         uint64
	IsClaimed       bool
}

type Journal struct {
	db     dbx.DBTX
	closer func() error
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Journal{db: db, closer: db.Close}, nil
}

// New wraps an already migrated handle.
func New(db dbx.DBTX) *Journal {
	return &Journal{db: db, closer: func() error { return nil }}
}

func (j *Journal) Close() error {
	return j.closer()
}

// Record stores e, replacing an earlier row for the same capsule.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO capsules (capsule_id, seed, sender, message_title, password_hint,
			unlock_timestamp, created_at, fee_paid, is_claimed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(capsule_id) DO UPDATE SET
			seed = excluded.seed,
			sender = excluded.sender,
			message_title = excluded.message_title,
			password_hint = excluded.password_hint,
			unlock_timestamp = excluded.unlock_timestamp,
			created_at = excluded.created_at,
			fee_paid = excluded.fee_paid,
			is_claimed = excluded.is_claimed
	`, e.CapsuleID, e.Seed, e.Sender, e.MessageTitle, e.PasswordHint,
		e.UnlockTimestamp, e.CreatedAt, dbx.Amount(e.FeePaid), e.IsClaimed)
	if err != nil {
		return fmt.Errorf("failed to record capsule %s: %w", e.CapsuleID, err)
	}
	return nil
}

func (j *Journal) Get(ctx context.Context, capsuleID string) (*Entry, error) {
	row := j.db.QueryRowContext(ctx, selectEntry+` WHERE capsule_id = ?`, capsuleID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capsule %s: %w", capsuleID, err)
	}
	return e, nil
}

// MarkClaimed flips the local claimed flag. Unknown ids are ignored: the
// capsule may have been created elsewhere.
func (j *Journal) MarkClaimed(ctx context.Context, capsuleID string) error {
	_, err := j.db.ExecContext(ctx, `UPDATE capsules SET is_claimed = 1 WHERE capsule_id = ?`, capsuleID)
	if err != nil {
		return fmt.Errorf("failed to mark capsule %s: %w", capsuleID, err)
	}
	return nil
}

// List returns all entries in creation order.
func (j *Journal) List(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, selectEntry+` ORDER BY created_at, capsule_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list capsules: %w", err)
	}
	defer rows.Close()

	result := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capsule row: %w", err)
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate capsule rows: %w", err)
	}

	return result, nil
}

const selectEntry = `SELECT capsule_id, seed, sender, message_title, password_hint,
	unlock_timestamp, created_at, fee_paid, is_claimed FROM capsules`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e   Entry
		fee string
	)
	if err := s.Scan(&e.CapsuleID, &e.Seed, &e.Sender, &e.MessageTitle, &e.PasswordHint,
		&e.UnlockTimestamp, &e.CreatedAt, &fee, &e.IsClaimed); err != nil {
		return nil, err
	}

	v, err := dbx.ParseAmount(fee)
	if err != nil {
		return nil, err
	}
	e.FeePaid = v

	return &e, nil
}
