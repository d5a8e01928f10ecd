package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/clock"
	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/server/eventsink"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/dmitrijs2005/gophcapsule/internal/server/rules"
	"github.com/dmitrijs2005/gophcapsule/internal/server/storage"
)

const (
	DefaultEventPage = 100
	MaxEventPage     = 1000
)

// Recorder receives business counters. *metrics.Metrics implements it.
type Recorder interface {
	CapsuleCreated(fee, rent uint64)
	CapsuleClaimed()
}

type nopRecorder struct{}

func (nopRecorder) CapsuleCreated(uint64, uint64) {}
func (nopRecorder) CapsuleClaimed()               {}

type CapsuleOptions struct {
	// RentPerByte is charged per allocated byte into the capsule's deposit.
	RentPerByte uint64
	// UserIndex enables GetUserCapsules; without it the listing is always empty.
	UserIndex bool
}

type CapsuleService struct {
	store    storage.Store
	clock    clock.Clock
	sink     eventsink.Sink
	recorder Recorder
	logger   logging.Logger
	opts     CapsuleOptions
}

// NewCapsuleService wires the service. sink and recorder may be nil.
func NewCapsuleService(store storage.Store, clk clock.Clock, sink eventsink.Sink, recorder Recorder,
	logger logging.Logger, opts CapsuleOptions) *CapsuleService {
	if sink == nil {
		sink = eventsink.Fanout{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &CapsuleService{
		store:    store,
		clock:    clk,
		sink:     sink,
		recorder: recorder,
		logger:   logger.With("module", "capsules"),
		opts:     opts,
	}
}

// CreateCapsule validates in, charges the fee and rent to sender and stores
// the capsule. Nothing is charged or stored if any step fails.
func (s *CapsuleService) CreateCapsule(ctx context.Context, sender string, in rules.CreateInput) (*models.Capsule, error) {
	now := clock.Unix(s.clock)

	var (
		capsule *models.Capsule
		ev      *models.Event
	)
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		cfg, err := r.Configs.Get(ctx)
		if err != nil {
			return err
		}
		if err := rules.ValidateCreate(in, cfg, now); err != nil {
			return err
		}

		if err := r.Accounts.Transfer(ctx, sender, cfg.Treasury, cfg.Price); err != nil {
			return err
		}

		capsule = rules.NewCapsule(in, sender, cfg.Price, now)
		rent, err := rules.Rent(capsule.Space, s.opts.RentPerByte)
		if err != nil {
			return err
		}
		capsule.RentDeposit = rent
		if err := r.Accounts.Debit(ctx, sender, capsule.RentDeposit); err != nil {
			return err
		}

		if err := r.Capsules.Create(ctx, capsule); err != nil {
			return err
		}

		ev = models.NewCapsuleCreated(capsule)
		return r.Events.Append(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.CapsuleCreated(capsule.FeePaid, capsule.RentDeposit)
	s.logger.Info(ctx, "capsule created", "capsule_id", capsule.ID, "sender", sender,
		"unlock_timestamp", capsule.UnlockTimestamp, "space", capsule.Space)
	s.publish(ctx, ev)

	return capsule, nil
}

// RetrieveMessage returns the stored ciphertext once the capsule is unlocked
// and passwordHash matches. Claimed capsules stay readable.
func (s *CapsuleService) RetrieveMessage(ctx context.Context, id, passwordHash string) (string, error) {
	now := clock.Unix(s.clock)

	var msg string
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		c, err := r.Capsules.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := rules.CheckUnlock(c, passwordHash, now); err != nil {
			return err
		}
		msg = c.EncryptedMessage
		return nil
	})
	if err != nil {
		return "", err
	}
	return msg, nil
}

// MarkClaimed sets the claimed latch. A capsule that is already claimed can
// be claimed again; each call emits its own event.
func (s *CapsuleService) MarkClaimed(ctx context.Context, id, passwordHash string) error {
	now := clock.Unix(s.clock)

	var ev *models.Event
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		c, err := r.Capsules.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := rules.CheckUnlock(c, passwordHash, now); err != nil {
			return err
		}
		if err := r.Capsules.MarkClaimed(ctx, id); err != nil {
			return err
		}
		ev = models.NewCapsuleClaimed(id, now)
		return r.Events.Append(ctx, ev)
	})
	if err != nil {
		return err
	}

	s.recorder.CapsuleClaimed()
	s.logger.Info(ctx, "capsule claimed", "capsule_id", id)
	s.publish(ctx, ev)
	return nil
}

// GetCapsuleInfo is public metadata only and ignores the lock.
func (s *CapsuleService) GetCapsuleInfo(ctx context.Context, id string) (*models.CapsuleInfo, error) {
	var info models.CapsuleInfo
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		c, err := r.Capsules.Get(ctx, id)
		if err != nil {
			return err
		}
		info = c.Info()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *CapsuleService) GetUserCapsules(ctx context.Context, caller string) ([]models.UserCapsuleInfo, error) {
	if !s.opts.UserIndex {
		return []models.UserCapsuleInfo{}, nil
	}

	var list []models.UserCapsuleInfo
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		var err error
		list, err = r.Capsules.ListBySender(ctx, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListEvents pages through the journal. limit <= 0 means DefaultEventPage.
func (s *CapsuleService) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error) {
	switch {
	case limit <= 0:
		limit = DefaultEventPage
	case limit > MaxEventPage:
		limit = MaxEventPage
	}

	var evs []*models.Event
	err := s.store.InTx(ctx, func(ctx context.Context, r storage.Repositories) error {
		var err error
		evs, err = r.Events.ListAfter(ctx, afterSeq, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return evs, nil
}

func (s *CapsuleService) publish(ctx context.Context, ev *models.Event) {
	if err := s.sink.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn(ctx, "event publish failed", "seq", ev.Seq, "kind", ev.Kind, "error", err)
	}
}
