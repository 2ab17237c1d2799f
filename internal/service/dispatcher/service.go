// Package dispatcher decides, per recipient, between live push and
// store-as-unseen, and keeps the durable record ahead of the wire.
package dispatcher

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"notify-hub/internal/domain"
	"notify-hub/internal/presence"
	"notify-hub/internal/repository"
	"notify-hub/internal/service/email"
	"notify-hub/internal/ws"
)

// Broadcaster is the slice of the transport adapter the dispatcher needs
// for the global fan-out frame.
type Broadcaster interface {
	Broadcast(payload []byte)
}

type Service interface {
	// Publish persists the message for each recipient and pushes it live
	// where presence allows. An empty input.UserID means broadcast.
	Publish(ctx context.Context, input domain.PublishInput) ([]domain.Notification, error)
}

type service struct {
	notifRepo     repository.NotificationRepository
	recipientRepo repository.RecipientRepository
	registry      *presence.Registry
	broadcaster   Broadcaster
	emailSvc      email.Service
	redis         *redis.Client
}

func NewService(
	notifRepo repository.NotificationRepository,
	recipientRepo repository.RecipientRepository,
	registry *presence.Registry,
	broadcaster Broadcaster,
	emailSvc email.Service,
	redis *redis.Client,
) Service {
	return &service{
		notifRepo:     notifRepo,
		recipientRepo: recipientRepo,
		registry:      registry,
		broadcaster:   broadcaster,
		emailSvc:      emailSvc,
		redis:         redis,
	}
}

func (s *service) Publish(ctx context.Context, input domain.PublishInput) ([]domain.Notification, error) {
	if input.Message == "" {
		return nil, domain.ErrEmptyMessage
	}

	broadcast := input.IsBroadcast()
	recipients, err := s.resolveRecipients(ctx, input)
	if err != nil {
		return nil, err
	}

	var created []domain.Notification
	for _, userID := range recipients {
		// For a broadcast the live frame goes out once over the shared
		// channel below, so per-recipient delivery only settles state.
		notif, err := s.deliver(ctx, userID, input.Message, !broadcast)
		if err != nil {
			// Persistence failed: this recipient's publish is aborted and
			// reported. Recipients already processed keep their records.
			return created, fmt.Errorf("publish to %s: %w", userID, err)
		}
		created = append(created, *notif)
	}

	if broadcast && s.broadcaster != nil && len(created) > 0 {
		s.broadcaster.Broadcast(ws.NotificationPayload(domain.Notification{
			ID:        uuid.New(),
			Message:   input.Message,
			Status:    domain.StatusSeen,
			CreatedAt: created[0].CreatedAt,
		}))
	}

	return created, nil
}

func (s *service) resolveRecipients(ctx context.Context, input domain.PublishInput) ([]string, error) {
	if !input.IsBroadcast() {
		return []string{input.UserID}, nil
	}
	return s.recipientRepo.ListIDs(ctx)
}

// deliver persists one record, then settles its read state against
// presence. Durability always precedes the push: a crash after Create
// leaves the record retrievable on the next reconnect.
func (s *service) deliver(ctx context.Context, userID, message string, push bool) (*domain.Notification, error) {
	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Status:  domain.StatusUnseen,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, userID)

	if !s.registry.Reachable(userID) {
		s.alertOffline(userID, message)
		return notif, nil
	}

	// Live delivery while connected counts as immediate acknowledgement.
	// The record is marked seen regardless of push success: a transport
	// error must never corrupt store state, only cost the live frame.
	if _, err := s.notifRepo.MarkSeen(ctx, userID, []uuid.UUID{notif.ID}); err != nil {
		return nil, err
	}
	notif.Status = domain.StatusSeen
	s.invalidateCache(ctx, userID)

	if push {
		if handle, ok := s.registry.HandleFor(userID); ok {
			if err := handle.Send(ws.NotificationPayload(*notif)); err != nil {
				log.Printf("dispatcher: push to %s failed: %v", userID, err)
			}
		}
	}

	return notif, nil
}

// alertOffline sends the optional email nudge for unreachable users.
// Failures are logged only; the store already holds the truth.
func (s *service) alertOffline(userID, message string) {
	if s.emailSvc == nil {
		return
	}

	go func() {
		ctx := context.Background()
		recipient, err := s.recipientRepo.GetByID(ctx, userID)
		if err != nil || recipient == nil || recipient.Email == nil {
			return
		}
		if err := s.emailSvc.SendOfflineNotification(ctx, *recipient.Email, userID, message); err != nil {
			log.Printf("dispatcher: offline email to %s failed: %v", userID, err)
		}
	}()
}

func (s *service) invalidateCache(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	pattern := fmt.Sprintf("notifications:%s:*", userID)
	keys, _ := s.redis.Keys(ctx, pattern).Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}
