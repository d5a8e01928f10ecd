package rpc

type Empty struct{}

type InitializeConfigRequest struct {
	Price    uint64 `cbor:"price"`
	Treasury string `cbor:"treasury"`
}

type UpdatePriceRequest struct {
	NewPrice uint64 `cbor:"new_price"`
}

type GetConfigRequest struct{}

type ConfigResponse struct {
	Price     uint64 `cbor:"price"`
	Authority string `cbor:"authority"`
	Treasury  string `cbor:"treasury"`
}

type FundAccountRequest struct {
	Identity string `cbor:"identity"`
	Amount   uint64 `cbor:"amount"`
}

type GetBalanceRequest struct {
	Identity string `cbor:"identity"`
}

type BalanceResponse struct {
	Identity string `cbor:"identity"`
	Balance  uint64 `cbor:"balance"`
}

type CreateCapsuleRequest struct {
	Seed               string `cbor:"seed"`
	EncryptedMessage   string `cbor:"encrypted_message"`
	UnlockTimestamp    int64  `cbor:"unlock_timestamp"`
	RecipientEmailHash string `cbor:"recipient_email_hash"`
	PasswordHash       string `cbor:"password_hash"`
	PasswordHint       string `cbor:"password_hint"`
	MessageTitle       string `cbor:"message_title"`
	Treasury           string `cbor:"treasury"`
}

type CreateCapsuleResponse struct {
	CapsuleID   string `cbor:"capsule_id"`
	CreatedAt   int64  `cbor:"created_at"`
	Space       int    `cbor:"space"`
	FeePaid     uint64 `cbor:"fee_paid"`
	RentDeposit uint64 `cbor:"rent_deposit"`
}

type RetrieveMessageRequest struct {
	CapsuleID    string `cbor:"capsule_id"`
	PasswordHash string `cbor:"password_hash"`
}

type RetrieveMessageResponse struct {
	EncryptedMessage string `cbor:"encrypted_message"`
}

type MarkClaimedRequest struct {
	CapsuleID    string `cbor:"capsule_id"`
	PasswordHash string `cbor:"password_hash"`
}

type GetCapsuleInfoRequest struct {
	CapsuleID string `cbor:"capsule_id"`
}

type CapsuleInfo struct {
	Sender          string `cbor:"sender"`
	UnlockTimestamp int64  `cbor:"unlock_timestamp"`
	PasswordHint    string `cbor:"password_hint"`
	MessageTitle    string `cbor:"message_title"`
	CreatedAt       int64  `cbor:"created_at"`
	IsClaimed       bool   `cbor:"is_claimed"`
}

type GetUserCapsulesRequest struct{}

type UserCapsule struct {
	CapsuleID       string `cbor:"capsule_id"`
	UnlockTimestamp int64  `cbor:"unlock_timestamp"`
	MessageTitle    string `cbor:"message_title"`
	IsClaimed       bool   `cbor:"is_claimed"`
}

type GetUserCapsulesResponse struct {
	Capsules []UserCapsule `cbor:"capsules"`
}

type ListEventsRequest struct {
	AfterSeq int64 `cbor:"after_seq"`
	Limit    int   `cbor:"limit"`
}

type Event struct {
	Seq             int64  `cbor:"seq"`
	Kind            string `cbor:"kind"`
	CapsuleID       string `cbor:"capsule_id"`
	Sender          string `cbor:"sender,omitempty"`
	UnlockTimestamp int64  `cbor:"unlock_timestamp,omitempty"`
	CreatedAt       int64  `cbor:"created_at,omitempty"`
	ClaimedAt       int64  `cbor:"claimed_at,omitempty"`
}

type ListEventsResponse struct {
	Events []Event `cbor:"events"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `cbor:"status"`
}
