package service

import (
	"github.com/redis/go-redis/v9"

	"notify-hub/internal/config"
	"notify-hub/internal/presence"
	"notify-hub/internal/repository"
	"notify-hub/internal/service/dispatcher"
	"notify-hub/internal/service/email"
	"notify-hub/internal/service/readstate"
	"notify-hub/internal/service/session"
	"notify-hub/internal/service/stimulus"
	"notify-hub/internal/ws"
)

type Services struct {
	Dispatcher dispatcher.Service
	ReadState  readstate.Service
	Session    *session.Service
	Email      email.Service
	Stimulus   *stimulus.Scheduler
}

func NewServices(repos *repository.Repositories, registry *presence.Registry, hub *ws.Hub, redis *redis.Client, cfg *config.Config) *Services {
	emailService := email.NewService(cfg)
	dispatcherService := dispatcher.NewService(repos.Notification, repos.Recipient, registry, hub, emailService, redis)
	readStateService := readstate.NewService(repos.Notification, redis)
	sessionService := session.NewService(repos.Recipient, readStateService)
	stimulusScheduler := stimulus.NewScheduler(
		dispatcherService,
		repos.Recipient,
		repos.Notification,
		cfg.StimulusInterval,
		cfg.Retention,
		cfg.RetentionTick,
	)

	hub.SetListener(sessionService)

	return &Services{
		Dispatcher: dispatcherService,
		ReadState:  readStateService,
		Session:    sessionService,
		Email:      emailService,
		Stimulus:   stimulusScheduler,
	}
}
