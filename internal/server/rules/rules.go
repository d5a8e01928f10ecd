// Package rules holds the capsule lifecycle rules: creation validation,
// record sizing and addressing, the unlock gate and the fee authority check.
// Everything here is pure; services wrap it in store transactions.
package rules

import (
	"crypto/subtle"
	"fmt"
	"math/bits"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/google/uuid"
)

// Field limits, in bytes.
const (
	MaxMessageLen = 5000
	MaxHintLen    = 500
	MaxTitleLen   = 200
	HashLen       = 64
)

// capsuleNamespace scopes derived capsule IDs to this system.
var capsuleNamespace = uuid.MustParse("6f0e7c1a-3b1d-4c58-9a52-2f6a1e0b9d43")

// CreateInput is what a sender supplies to create a capsule.
type CreateInput struct {
	Seed               string
	EncryptedMessage   string
	UnlockTimestamp    int64
	RecipientEmailHash string
	PasswordHash       string
	PasswordHint       string
	MessageTitle       string
	// Treasury is the treasury the sender intends to pay; it must match Config.
	Treasury string
}

// ValidateCreate checks in against cfg at time now. Checks run in a fixed
// order and the first violation is returned.
func ValidateCreate(in CreateInput, cfg *models.Config, now int64) error {
	switch {
	case in.UnlockTimestamp <= now:
		return common.ErrInvalidUnlockTime
	case len(in.EncryptedMessage) > MaxMessageLen:
		return common.ErrMessageTooLong
	case len(in.PasswordHint) > MaxHintLen:
		return common.ErrHintTooLong
	case len(in.MessageTitle) > MaxTitleLen:
		return common.ErrTitleTooLong
	case len(in.RecipientEmailHash) != HashLen:
		return common.ErrInvalidEmailHash
	case len(in.PasswordHash) != HashLen:
		return common.ErrInvalidPasswordHash
	case in.Treasury != cfg.Treasury:
		return common.ErrInvalidTreasury
	}
	return nil
}

// Space is the allocated size of a capsule record: an 8 byte discriminator,
// the 32 byte sender key, length-prefixed strings, two int64 timestamps and
// the claimed flag. Only the three free-form fields vary.
func Space(message, hint, title string) int {
	return 8 + // discriminator
		32 + // sender
		4 + len(message) +
		8 + // unlock_timestamp
		4 + HashLen + // recipient_email_hash
		4 + HashLen + // password_hash
		4 + len(hint) +
		4 + len(title) +
		8 + // created_at
		1 // is_claimed
}

// CapsuleID derives the capsule address from the sender and a caller seed.
// The same pair always yields the same ID, so a reused seed collides.
// The sender is hashed into its own namespace first so no separator can make
// two different pairs meet.
func CapsuleID(sender, seed string) string {
	senderNS := uuid.NewSHA1(capsuleNamespace, []byte(sender))
	return uuid.NewSHA1(senderNS, []byte(seed)).String()
}

// NewCapsule builds the record for a validated input.
func NewCapsule(in CreateInput, sender string, fee uint64, now int64) *models.Capsule {
	return &models.Capsule{
		ID:                 CapsuleID(sender, in.Seed),
		Sender:             sender,
		EncryptedMessage:   in.EncryptedMessage,
		UnlockTimestamp:    in.UnlockTimestamp,
		RecipientEmailHash: in.RecipientEmailHash,
		PasswordHash:       in.PasswordHash,
		PasswordHint:       in.PasswordHint,
		MessageTitle:       in.MessageTitle,
		CreatedAt:          now,
		IsClaimed:          false,
		Space:              Space(in.EncryptedMessage, in.PasswordHint, in.MessageTitle),
		FeePaid:            fee,
	}
}

// Rent is what the allocator charges for a record of space bytes.
func Rent(space int, perByte uint64) (uint64, error) {
	hi, lo := bits.Mul64(uint64(space), perByte)
	if hi != 0 {
		return 0, fmt.Errorf("rent for %d bytes at %d per byte: %w", space, perByte, common.ErrAmountOverflow)
	}
	return lo, nil
}

// CheckUnlock gates retrieval and claiming. The lock is checked before the
// password so a locked capsule never reveals whether a guess was right.
// The hash comparison is exact and case-sensitive.
func CheckUnlock(c *models.Capsule, passwordHash string, now int64) error {
	if now < c.UnlockTimestamp {
		return common.ErrStillLocked
	}
	if subtle.ConstantTimeCompare([]byte(passwordHash), []byte(c.PasswordHash)) != 1 {
		return common.ErrInvalidPassword
	}
	return nil
}

// AuthorizeAuthority reports ErrUnauthorizedAccess unless caller is the
// config authority.
func AuthorizeAuthority(cfg *models.Config, caller string) error {
	if caller != cfg.Authority {
		return common.ErrUnauthorizedAccess
	}
	return nil
}
