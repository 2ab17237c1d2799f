// Package readstate mediates the user-initiated acknowledge and clear
// actions, translating them into store state transitions.
package readstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"notify-hub/internal/domain"
	"notify-hub/internal/repository"
)

const countCacheTTL = 30 * time.Second

type Service interface {
	// Acknowledge marks every unseen notification for userID as seen and
	// returns the freshly acknowledged batch. Calling it again straight
	// away finds nothing unseen and returns an empty list.
	Acknowledge(ctx context.Context, userID string) ([]domain.Notification, error)

	// Clear deletes the seen notifications for userID and reports how
	// many went. Unseen records are untouchable by construction.
	Clear(ctx context.Context, userID string) (int64, error)

	// List rehydrates a client's history view, newest first.
	List(ctx context.Context, userID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)

	// UnseenCount backs the badge.
	UnseenCount(ctx context.Context, userID string) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	redis     *redis.Client
}

func NewService(notifRepo repository.NotificationRepository, redis *redis.Client) Service {
	return &service{notifRepo: notifRepo, redis: redis}
}

func (s *service) Acknowledge(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	acknowledged := []domain.Notification{}
	for {
		unseen, err := s.notifRepo.ListByStatus(ctx, userID, domain.StatusUnseen)
		if err != nil {
			return nil, err
		}
		if len(unseen) == 0 {
			break
		}

		ids := make([]uuid.UUID, len(unseen))
		for i, n := range unseen {
			ids[i] = n.ID
		}

		// The update predicate re-checks ownership and unseen status, so
		// a concurrent acknowledge of the same batch settles to one
		// winner and no row ever reverts.
		if _, err := s.notifRepo.MarkSeen(ctx, userID, ids); err != nil {
			return nil, err
		}

		now := time.Now()
		for i := range unseen {
			unseen[i].Status = domain.StatusSeen
			unseen[i].SeenAt = &now
		}
		acknowledged = append(acknowledged, unseen...)

		// ListByStatus pages at the store's batch bound; a short batch
		// means the backlog is drained.
		if len(unseen) < domain.MaxPageSize {
			break
		}
	}

	if len(acknowledged) > 0 {
		s.invalidateCache(ctx, userID)
	}
	return acknowledged, nil
}

func (s *service) Clear(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, domain.ErrEmptyUserID
	}

	var removed int64
	for {
		seen, err := s.notifRepo.ListByStatus(ctx, userID, domain.StatusSeen)
		if err != nil {
			return removed, err
		}
		if len(seen) == 0 {
			break
		}

		ids := make([]uuid.UUID, len(seen))
		for i, n := range seen {
			ids[i] = n.ID
		}

		count, err := s.notifRepo.DeleteSeen(ctx, userID, ids)
		if err != nil {
			return removed, err
		}
		removed += count

		if len(seen) < domain.MaxPageSize {
			break
		}
	}

	if removed > 0 {
		s.invalidateCache(ctx, userID)
	}
	return removed, nil
}

func (s *service) List(ctx context.Context, userID string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()

	cacheKey := fmt.Sprintf("notifications:%s:page:%d:%d", userID, params.Page, params.PageSize)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var resp domain.PaginatedResponse[domain.Notification]
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	resp := domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total)

	if s.redis != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.redis.Set(ctx, cacheKey, raw, countCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *service) UnseenCount(ctx context.Context, userID string) (int64, error) {
	cacheKey := fmt.Sprintf("notifications:%s:unseen_count", userID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.notifRepo.CountUnseen(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, count, countCacheTTL).Err()
	}
	return count, nil
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
