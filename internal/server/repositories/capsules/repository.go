package capsules

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrCapsuleExists when the ID is taken.
	Create(ctx context.Context, c *models.Capsule) error
	Get(ctx context.Context, id string) (*models.Capsule, error)
	MarkClaimed(ctx context.Context, id string) error
	// ListBySender returns a sender's capsules in creation order.
	ListBySender(ctx context.Context, sender string) ([]models.UserCapsuleInfo, error)
}
