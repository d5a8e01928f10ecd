package configs

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type Repository interface {
	// Create stores the singleton config or fails with common.ErrAlreadyInitialized.
	Create(ctx context.Context, cfg *models.Config) error
	// Get returns common.ErrConfigNotInitialized when no config exists.
	Get(ctx context.Context) (*models.Config, error)
	UpdatePrice(ctx context.Context, price uint64) error
}
