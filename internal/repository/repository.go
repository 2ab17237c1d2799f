package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Notification NotificationRepository
	Recipient    RecipientRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Notification: NewNotificationRepository(db),
		Recipient:    NewRecipientRepository(db),
	}
}
