// Package session reacts to logical connect events from the transport:
// it records the user as a known recipient and replays their backlog
// badge so a reconnecting client can catch up.
package session

import (
	"context"
	"log"

	"notify-hub/internal/presence"
	"notify-hub/internal/repository"
	"notify-hub/internal/service/readstate"
	"notify-hub/internal/ws"
)

type Service struct {
	recipientRepo repository.RecipientRepository
	readState     readstate.Service
}

func NewService(recipientRepo repository.RecipientRepository, readState readstate.Service) *Service {
	return &Service{recipientRepo: recipientRepo, readState: readState}
}

// UserConnected implements ws.SessionListener. Connecting alone never
// acknowledges anything; the client only learns how much is waiting.
func (s *Service) UserConnected(ctx context.Context, userID string, handle presence.Handle) {
	if err := s.recipientRepo.Upsert(ctx, userID); err != nil {
		log.Printf("session: record recipient %s: %v", userID, err)
	}

	count, err := s.readState.UnseenCount(ctx, userID)
	if err != nil {
		log.Printf("session: unseen count for %s: %v", userID, err)
		return
	}
	if err := handle.Send(ws.UnseenCountPayload(count)); err != nil {
		log.Printf("session: badge push to %s: %v", userID, err)
	}
}
