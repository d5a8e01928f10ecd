// Package accounts is the value ledger the capsule fee and rent are paid
// from. Balances never go negative.
package accounts

import "context"

type Repository interface {
	// Balance returns 0 for identities that were never credited.
	Balance(ctx context.Context, identity string) (uint64, error)
	Credit(ctx context.Context, identity string, amount uint64) error
	// Debit fails with common.ErrInsufficientBalance and leaves the balance untouched.
	Debit(ctx context.Context, identity string, amount uint64) error
	Transfer(ctx context.Context, from, to string, amount uint64) error
}
