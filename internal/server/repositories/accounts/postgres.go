package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Balance(ctx context.Context, identity string) (uint64, error) {
	query :=
		`SELECT balance::text FROM accounts
		 WHERE identity = $1
		 `

	var balance string
	err := r.db.QueryRowContext(ctx, query, identity).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	v, err := dbx.ParseAmount(balance)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Credit(ctx context.Context, identity string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	query :=
		`INSERT INTO accounts (identity, balance)
		 VALUES ($1, $2::numeric)
		 ON CONFLICT (identity) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
		 `

	if _, err := r.db.ExecContext(ctx, query, identity, dbx.Amount(amount)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Debit(ctx context.Context, identity string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	query :=
		`UPDATE accounts SET balance = balance - $2::numeric
		 WHERE identity = $1 AND balance >= $2::numeric
		 `

	res, err := r.db.ExecContext(ctx, query, identity, dbx.Amount(amount))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrInsufficientBalance
	}
	return nil
}

func (r *PostgresRepository) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if err := r.Debit(ctx, from, amount); err != nil {
		return err
	}
	return r.Credit(ctx, to, amount)
}
