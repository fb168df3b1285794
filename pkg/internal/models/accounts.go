package models

import "time"

type Account struct {
	BaseModel

	Name     string  `json:"name" gorm:"uniqueIndex"`
	Email    string  `json:"email,omitempty" gorm:"uniqueIndex"`
	Nick     string  `json:"nick"`
	Avatar   *string `json:"avatar"`
	Password string  `json:"-"`
}

const (
	FriendRequestSent     = "sent"
	FriendRequestReceived = "received"
)

// FriendRequest is one entry of an account's pending list. Every sent entry
// has a mirrored received entry on the counterparty's account, and an account
// holds at most one entry per counterparty.
type FriendRequest struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	AccountID      uint      `json:"account_id" gorm:"uniqueIndex:idx_request_pair"`
	CounterpartyID uint      `json:"counterparty_id" gorm:"uniqueIndex:idx_request_pair;index"`
	Direction      string    `json:"direction"`
	CreatedAt      time.Time `json:"created_at"`
}

// Friendship is one direction of the symmetric friend relation, both
// directions are always written together.
type Friendship struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint      `json:"friend_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RelationshipNone     = "none"
	RelationshipSent     = FriendRequestSent
	RelationshipReceived = FriendRequestReceived
	RelationshipFriend   = "friend"
)
