package events

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/cborx"
	"github.com/dmitrijs2005/gophcapsule/internal/dbx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, ev *models.Event) error {
	payload, err := cborx.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	query :=
		`INSERT INTO capsule_events (kind, capsule_id, payload)
		 VALUES ($1, $2, $3)
		 RETURNING seq
		 `

	if err := r.db.QueryRowContext(ctx, query, string(ev.Kind), ev.CapsuleID, payload).Scan(&ev.Seq); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error) {
	query :=
		`SELECT seq, payload FROM capsule_events
		 WHERE seq > $1
		 ORDER BY seq
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Event, 0)
	for rows.Next() {
		var (
			seq     int64
			payload []byte
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		ev := &models.Event{}
		if err := cborx.Unmarshal(payload, ev); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", seq, err)
		}
		ev.Seq = seq
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
