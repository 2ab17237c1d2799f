package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	UserID    string             `json:"user_id" db:"user_id"`
	Message   string             `json:"message" db:"message"`
	Status    NotificationStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	SeenAt    *time.Time         `json:"seen_at,omitempty" db:"seen_at"`
}

// NotificationStatus moves unseen -> seen -> deleted, never backward.
type NotificationStatus string

const (
	StatusUnseen NotificationStatus = "unseen"
	StatusSeen   NotificationStatus = "seen"
)

// PublishInput is a publish request. An empty UserID means broadcast:
// the message is fanned out into one record per known recipient.
type PublishInput struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

func (p *PublishInput) IsBroadcast() bool {
	return p.UserID == ""
}

// Recipient is a user the system has ever seen connect. Broadcasts fan
// out to all recipients, not just the currently connected ones.
type Recipient struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Email       *string   `json:"email,omitempty" db:"email"`
	FirstSeenAt time.Time `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at" db:"last_seen_at"`
}
