package models

// Capsule is one escrowed message. It is self-contained: the fee paid is a
// snapshot and no reference to Config is kept.
type Capsule struct {
	ID                 string
	Sender             string
	EncryptedMessage   string
	UnlockTimestamp    int64
	RecipientEmailHash string
	PasswordHash       string
	PasswordHint       string
	MessageTitle       string
	CreatedAt          int64
	IsClaimed          bool

	// Space is the allocated record size in bytes.
	Space int
	// RentDeposit is what the allocator charged the sender for Space.
	RentDeposit uint64
	// FeePaid is the Config price at creation time.
	FeePaid uint64
}

// CapsuleInfo is the public, pre-unlock-safe view of a capsule. It never
// carries the message, the password hash or the recipient e-mail hash.
type CapsuleInfo struct {
	Sender          string
	UnlockTimestamp int64
	PasswordHint    string
	MessageTitle    string
	CreatedAt       int64
	IsClaimed       bool
}

// Info projects c onto its public view.
func (c *Capsule) Info() CapsuleInfo {
	return CapsuleInfo{
		Sender:          c.Sender,
		UnlockTimestamp: c.UnlockTimestamp,
		PasswordHint:    c.PasswordHint,
		MessageTitle:    c.MessageTitle,
		CreatedAt:       c.CreatedAt,
		IsClaimed:       c.IsClaimed,
	}
}

// UserCapsuleInfo is one row of a sender's capsule listing.
type UserCapsuleInfo struct {
	CapsuleID       string
	UnlockTimestamp int64
	MessageTitle    string
	IsClaimed       bool
}
