// Package common defines shared constants and sentinel errors used across
// client and server layers of GophCapsule. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrAlreadyInitialized   = errors.New("config already initialized")
	ErrConfigNotInitialized = errors.New("config not initialized")
	ErrCapsuleExists        = errors.New("capsule already exists")

	// Ledger errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAmountOverflow      = errors.New("amount overflows 64 bits")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Capsule validation errors. Input-shape errors are caller-correctable.
var (
	ErrInvalidUnlockTime   = errors.New("unlock date must be in the future")
	ErrMessageTooLong      = errors.New("message is too long (max 5KB)")
	ErrHintTooLong         = errors.New("hint is too long (max 500 characters)")
	ErrTitleTooLong        = errors.New("title is too long (max 200 characters)")
	ErrInvalidEmailHash    = errors.New("invalid email hash (must be SHA256 64 characters)")
	ErrInvalidPasswordHash = errors.New("invalid password hash (must be SHA256 64 characters)")
)

// Authorization and gating errors.
var (
	ErrUnauthorizedAccess = errors.New("unauthorized access")
	ErrInvalidTreasury    = errors.New("invalid treasury wallet")
	ErrStillLocked        = errors.New("this time capsule is still locked")
	ErrInvalidPassword    = errors.New("incorrect password")
)

// IsInputError reports whether err is one of the caller-correctable
// input-shape errors.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidUnlockTime, ErrMessageTooLong, ErrHintTooLong,
		ErrTitleTooLong, ErrInvalidEmailHash, ErrInvalidPasswordHash,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
