// Package services contains server-side business logic. Every operation runs
// in one store transaction; events are published only after it commits.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/dmitrijs2005/gophcapsule/internal/server/rules"
	"github.com/dmitrijs2005/gophcapsule/internal/server/storage"
)

// AdminService manages the fee configuration and the development ledger.
type AdminService struct {
	store  storage.Store
	logger logging.Logger
}

func NewAdminService(store storage.Store, logger logging.Logger) *AdminService {
	return &AdminService{store: store, logger: logger.With("module", "admin")}
}

// InitializeConfig creates the singleton config with caller as authority.
func (s *AdminService) InitializeConfig(ctx context.Context, caller string, price uint64, treasury string) (*models.Config, error) {
	cfg := &models.Config{Price: price, Authority: caller, Treasury: treasury}

	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		return r.Configs.Create(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "config initialized", "authority", caller, "treasury", treasury, "price", price)
	return cfg, nil
}

// UpdatePrice overwrites the fee. Only the authority may call it and any
// value, zero included, is accepted.
func (s *AdminService) UpdatePrice(ctx context.Context, caller string, price uint64) error {
	var old uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		cfg, err := r.Configs.Get(ctx)
		if err != nil {
			return err
		}
		if err := rules.AuthorizeAuthority(cfg, caller); err != nil {
			return err
		}
		old = cfg.Price
		return r.Configs.UpdatePrice(ctx, price)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "price updated", "old", old, "new", price)
	return nil
}

func (s *AdminService) GetConfig(ctx context.Context) (*models.Config, error) {
	var cfg *models.Config
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		var err error
		cfg, err = r.Configs.Get(ctx)
		return err
	})
	return cfg, err
}

// FundAccount credits identity out of thin air. It exists for development
// and test deployments and is restricted to the authority.
func (s *AdminService) FundAccount(ctx context.Context, caller, identity string, amount uint64) (uint64, error) {
	var balance uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		cfg, err := r.Configs.Get(ctx)
		if err != nil {
			return err
		}
		if err := rules.AuthorizeAuthority(cfg, caller); err != nil {
			return err
		}
		if err := r.Accounts.Credit(ctx, identity, amount); err != nil {
			return fmt.Errorf("credit %s: %w", identity, err)
		}
		balance, err = r.Accounts.Balance(ctx, identity)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "account funded", "identity", identity, "amount", amount, "balance", balance)
	return balance, nil
}

func (s *AdminService) GetBalance(ctx context.Context, identity string) (uint64, error) {
	var balance uint64
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		var err error
		balance, err = r.Accounts.Balance(ctx, identity)
		return err
	})
	return balance, err
}
