package handler

import (
	"notify-hub/internal/repository"
	"notify-hub/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	Publish      *PublishHandler
	Recipient    *RecipientHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.ReadState),
		Publish:      NewPublishHandler(services.Dispatcher),
		Recipient:    NewRecipientHandler(repos.Recipient),
	}
}
