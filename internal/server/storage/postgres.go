package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/repomanager"
)

type PostgresStore struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

// NewPostgresStore wraps an open database. Migrations are not run.
func NewPostgresStore(db *sql.DB, rm repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, rm: rm}
}

// OpenPostgres connects with the pgx driver and brings the schema up to date.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return NewPostgresStore(db, rm), nil
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, Repositories{
			Configs:  s.rm.Configs(tx),
			Accounts: s.rm.Accounts(tx),
			Capsules: s.rm.Capsules(tx),
			Events:   s.rm.Events(tx),
		})
	})
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
