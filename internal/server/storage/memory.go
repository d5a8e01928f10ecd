package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

// memState is treated as immutable once committed. A transaction works on a
// shallow copy; capsules are replaced, never mutated in place.
type memState struct {
	config   *models.Config
	balances map[string]uint64
	capsules map[string]*models.Capsule
	bySender map[string][]string
	events   []*models.Event
}

func (s *memState) clone() *memState {
	c := &memState{
		balances: maps.Clone(s.balances),
		capsules: maps.Clone(s.capsules),
		bySender: maps.Clone(s.bySender),
		events:   s.events[:len(s.events):len(s.events)],
	}
	if s.config != nil {
		cfg := *s.config
		c.config = &cfg
	}
	return c
}

// MemoryStore serializes transactions behind one mutex.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		balances: map[string]uint64{},
		capsules: map[string]*models.Capsule{},
		bySender: map[string][]string{},
	}}
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, Repositories{
		Configs:  memConfigs{work},
		Accounts: memAccounts{work},
		Capsules: memCapsules{work},
		Events:   memEvents{work},
	}); err != nil {
		return err
	}

	s.state = work
	return nil
}

func (s *MemoryStore) Close() error { return nil }

type memConfigs struct{ st *memState }

func (r memConfigs) Create(_ context.Context, cfg *models.Config) error {
	if r.st.config != nil {
		return common.ErrAlreadyInitialized
	}
	c := *cfg
	r.st.config = &c
	return nil
}

func (r memConfigs) Get(context.Context) (*models.Config, error) {
	if r.st.config == nil {
		return nil, common.ErrConfigNotInitialized
	}
	c := *r.st.config
	return &c, nil
}

func (r memConfigs) UpdatePrice(_ context.Context, price uint64) error {
	if r.st.config == nil {
		return common.ErrConfigNotInitialized
	}
	r.st.config.Price = price
	return nil
}

type memAccounts struct{ st *memState }

func (r memAccounts) Balance(_ context.Context, identity string) (uint64, error) {
	return r.st.balances[identity], nil
}

func (r memAccounts) Credit(_ context.Context, identity string, amount uint64) error {
	cur := r.st.balances[identity]
	if cur+amount < cur {
		return common.ErrorInternal
	}
	if amount > 0 {
		r.st.balances[identity] = cur + amount
	}
	return nil
}

func (r memAccounts) Debit(_ context.Context, identity string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	cur := r.st.balances[identity]
	if cur < amount {
		return common.ErrInsufficientBalance
	}
	r.st.balances[identity] = cur - amount
	return nil
}

func (r memAccounts) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if err := r.Debit(ctx, from, amount); err != nil {
		return err
	}
	return r.Credit(ctx, to, amount)
}

type memCapsules struct{ st *memState }

func (r memCapsules) Create(_ context.Context, c *models.Capsule) error {
	if _, ok := r.st.capsules[c.ID]; ok {
		return common.ErrCapsuleExists
	}
	stored := *c
	r.st.capsules[c.ID] = &stored

	ids := r.st.bySender[c.Sender]
	r.st.bySender[c.Sender] = append(ids[:len(ids):len(ids)], c.ID)
	return nil
}

func (r memCapsules) Get(_ context.Context, id string) (*models.Capsule, error) {
	c, ok := r.st.capsules[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r memCapsules) MarkClaimed(_ context.Context, id string) error {
	c, ok := r.st.capsules[id]
	if !ok {
		return common.ErrorNotFound
	}
	updated := *c
	updated.IsClaimed = true
	r.st.capsules[id] = &updated
	return nil
}

func (r memCapsules) ListBySender(_ context.Context, sender string) ([]models.UserCapsuleInfo, error) {
	ids := r.st.bySender[sender]
	result := make([]models.UserCapsuleInfo, 0, len(ids))
	for _, id := range ids {
		c := r.st.capsules[id]
		result = append(result, models.UserCapsuleInfo{
			CapsuleID:       c.ID,
			UnlockTimestamp: c.UnlockTimestamp,
			MessageTitle:    c.MessageTitle,
			IsClaimed:       c.IsClaimed,
		})
	}
	return result, nil
}

type memEvents struct{ st *memState }

func (r memEvents) Append(_ context.Context, ev *models.Event) error {
	ev.Seq = int64(len(r.st.events)) + 1
	stored := *ev
	r.st.events = append(r.st.events, &stored)
	return nil
}

func (r memEvents) ListAfter(_ context.Context, afterSeq int64, limit int) ([]*models.Event, error) {
	result := make([]*models.Event, 0)
	if afterSeq < 0 {
		afterSeq = 0
	}
	for i := afterSeq; i < int64(len(r.st.events)) && len(result) < limit; i++ {
		ev := *r.st.events[i]
		result = append(result, &ev)
	}
	return result, nil
}
