package capsules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Capsule) error {
	query :=
		`INSERT INTO capsules (id, sender, encrypted_message, unlock_timestamp,
		   recipient_email_hash, password_hash, password_hint, message_title,
		   created_at, is_claimed, space, rent_deposit, fee_paid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::numeric, $13::numeric)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Sender, []byte(c.EncryptedMessage), c.UnlockTimestamp,
		c.RecipientEmailHash, c.PasswordHash, []byte(c.PasswordHint), []byte(c.MessageTitle),
		c.CreatedAt, c.IsClaimed, c.Space, dbx.Amount(c.RentDeposit), dbx.Amount(c.FeePaid))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrCapsuleExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Capsule, error) {
	query :=
		`SELECT id, sender, encrypted_message, unlock_timestamp,
		   recipient_email_hash, password_hash, password_hint, message_title,
		   created_at, is_claimed, space, rent_deposit::text, fee_paid::text
		 FROM capsules
		 WHERE id = $1
		 `

	var (
		rent, fee        string
		msg, hint, title []byte
	)
	c := &models.Capsule{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Sender, &msg, &c.UnlockTimestamp,
		&c.RecipientEmailHash, &c.PasswordHash, &hint, &title,
		&c.CreatedAt, &c.IsClaimed, &c.Space, &rent, &fee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			// not a UUID, so it cannot name a capsule
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	c.EncryptedMessage, c.PasswordHint, c.MessageTitle = string(msg), string(hint), string(title)

	if c.RentDeposit, err = dbx.ParseAmount(rent); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if c.FeePaid, err = dbx.ParseAmount(fee); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) MarkClaimed(ctx context.Context, id string) error {
	query :=
		`UPDATE capsules SET is_claimed = TRUE
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListBySender(ctx context.Context, sender string) ([]models.UserCapsuleInfo, error) {
	query :=
		`SELECT id, unlock_timestamp, message_title, is_claimed
		 FROM capsules
		 WHERE sender = $1
		 ORDER BY seq
		 `

	rows, err := r.db.QueryContext(ctx, query, sender)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserCapsuleInfo, 0)
	for rows.Next() {
		var (
			item  models.UserCapsuleInfo
			title []byte
		)
		if err := rows.Scan(&item.CapsuleID, &item.UnlockTimestamp, &title, &item.IsClaimed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.MessageTitle = string(title)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
