// Package events is the durable capsule event journal. Entries are appended
// inside the transaction that produced them and read back by sequence.
package events

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type Repository interface {
	// Append stores ev and sets ev.Seq.
	Append(ctx context.Context, ev *models.Event) error
	// ListAfter returns at most limit events with Seq > afterSeq, oldest first.
	ListAfter(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error)
}
