// Package storage runs service work inside a single transaction over the
// capsule, config, ledger and event repositories. Two backends exist:
// PostgreSQL for deployments and an in-process store for development and tests.
package storage

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/capsules"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/configs"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/events"
)

// Repositories are bound to one transaction and must not outlive it.
type Repositories struct {
	Configs  configs.Repository
	Accounts accounts.Repository
	Capsules capsules.Repository
	Events   events.Repository
}

// Store runs fn atomically: either every write fn made is committed or none is.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}
