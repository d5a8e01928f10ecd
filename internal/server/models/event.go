package models

// EventKind names an emitted event type.
type EventKind string

const (
	EventCapsuleCreated EventKind = "capsule_created"
	EventCapsuleClaimed EventKind = "capsule_claimed"
)

// Event is an append-only notification for external observers such as
// indexers. Seq is assigned by the event journal.
//
// CapsuleCreated carries Sender, UnlockTimestamp and CreatedAt.
// CapsuleClaimed carries ClaimedAt.
type Event struct {
	Seq             int64     `cbor:"seq"`
	Kind            EventKind `cbor:"kind"`
	CapsuleID       string    `cbor:"capsule_id"`
	Sender          string    `cbor:"sender,omitempty"`
	UnlockTimestamp int64     `cbor:"unlock_timestamp,omitempty"`
	CreatedAt       int64     `cbor:"created_at,omitempty"`
	ClaimedAt       int64     `cbor:"claimed_at,omitempty"`
}

// NewCapsuleCreated builds the creation event for c.
func NewCapsuleCreated(c *Capsule) *Event {
	return &Event{
		Kind:            EventCapsuleCreated,
		CapsuleID:       c.ID,
		Sender:          c.Sender,
		UnlockTimestamp: c.UnlockTimestamp,
		CreatedAt:       c.CreatedAt,
	}
}

// NewCapsuleClaimed builds the claim event for capsuleID.
func NewCapsuleClaimed(capsuleID string, claimedAt int64) *Event {
	return &Event{
		Kind:      EventCapsuleClaimed,
		CapsuleID: capsuleID,
		ClaimedAt: claimedAt,
	}
}
