package configs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, cfg *models.Config) error {
	query :=
		`INSERT INTO config (key, price, authority, treasury)
		 VALUES ($1, $2::numeric, $3, $4)
		 ON CONFLICT (key) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		models.ConfigKey, dbx.Amount(cfg.Price), cfg.Authority, cfg.Treasury)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyInitialized
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.Config, error) {
	query :=
		`SELECT price::text, authority, treasury FROM config
		 WHERE key = $1
		 `

	var price string
	cfg := &models.Config{}
	err := r.db.QueryRowContext(ctx, query, models.ConfigKey).Scan(&price, &cfg.Authority, &cfg.Treasury)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrConfigNotInitialized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if cfg.Price, err = dbx.ParseAmount(price); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cfg, nil
}

func (r *PostgresRepository) UpdatePrice(ctx context.Context, price uint64) error {
	query :=
		`UPDATE config SET price = $2::numeric
		 WHERE key = $1
		 `

	res, err := r.db.ExecContext(ctx, query, models.ConfigKey, dbx.Amount(price))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrConfigNotInitialized
	}

	return nil
}
