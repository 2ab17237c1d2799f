package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-hub/internal/domain"
	"notify-hub/internal/presence"
	"notify-hub/internal/repository"
	"notify-hub/internal/service/dispatcher"
	"notify-hub/internal/service/readstate"
)

// memStore is an in-memory stand-in for the Postgres repository with the
// same ownership and status predicates, so the full publish/acknowledge/
// clear flow can run without a database.
type memStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*domain.Notification
	inserts int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uuid.UUID]*domain.Notification)}
}

func (s *memStore) Create(ctx context.Context, notif *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notif.CreatedAt = time.Now()
	clone := *notif
	s.rows[notif.ID] = &clone
	s.inserts++
	return nil
}

func (s *memStore) ListByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (s *memStore) ListByStatus(ctx context.Context, userID string, status domain.NotificationStatus) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.rows {
		if n.UserID == userID && n.Status == status {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *memStore) MarkSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	now := time.Now()
	for _, id := range ids {
		n, ok := s.rows[id]
		if !ok || n.UserID != userID || n.Status != domain.StatusUnseen {
			continue
		}
		n.Status = domain.StatusSeen
		n.SeenAt = &now
		count++
	}
	return count, nil
}

func (s *memStore) DeleteSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, id := range ids {
		n, ok := s.rows[id]
		if !ok || n.UserID != userID || n.Status != domain.StatusSeen {
			continue
		}
		delete(s.rows, id)
		count++
	}
	return count, nil
}

func (s *memStore) CountUnseen(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.rows {
		if n.UserID == userID && n.Status == domain.StatusUnseen {
			count++
		}
	}
	return count, nil
}

func (s *memStore) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-age)
	var count int64
	for id, n := range s.rows {
		if n.CreatedAt.Before(cutoff) {
			delete(s.rows, id)
			count++
		}
	}
	return count, nil
}

type memRecipients struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newMemRecipients(ids ...string) *memRecipients {
	m := &memRecipients{ids: make(map[string]struct{})}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	return m
}

func (m *memRecipients) Upsert(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[userID] = struct{}{}
	return nil
}

func (m *memRecipients) SetEmail(ctx context.Context, userID, email string) error { return nil }

func (m *memRecipients) GetByID(ctx context.Context, userID string) (*domain.Recipient, error) {
	return nil, nil
}

func (m *memRecipients) ListIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type countingHandle struct {
	mu       sync.Mutex
	payloads int
}

func (h *countingHandle) Send(payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads++
	return nil
}

var (
	_ repository.NotificationRepository = (*memStore)(nil)
	_ repository.RecipientRepository    = (*memRecipients)(nil)
)

// Disconnected user gets a broadcast, reconnects, acknowledges, clears.
func TestFlow_OfflineBroadcastThenAcknowledgeAndClear(t *testing.T) {
	store := newMemStore()
	recipients := newMemRecipients("userA")
	registry := presence.NewRegistry()

	disp := dispatcher.NewService(store, recipients, registry, nil, nil, nil)
	reader := readstate.NewService(store, nil)
	ctx := context.Background()

	// userA is disconnected when the broadcast lands.
	_, err := disp.Publish(ctx, domain.PublishInput{Message: "hello"})
	require.NoError(t, err)

	count, err := reader.UnseenCount(ctx, "userA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Connecting alone does not acknowledge anything.
	registry.Connect("userA", &countingHandle{})
	count, err = reader.UnseenCount(ctx, "userA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Acknowledge flips the record and returns it.
	acknowledged, err := reader.Acknowledge(ctx, "userA")
	require.NoError(t, err)
	require.Len(t, acknowledged, 1)
	assert.Equal(t, "hello", acknowledged[0].Message)
	assert.Equal(t, domain.StatusSeen, acknowledged[0].Status)

	// A second acknowledge finds nothing; nothing reverted.
	again, err := reader.Acknowledge(ctx, "userA")
	require.NoError(t, err)
	assert.Empty(t, again)

	// Clear removes the seen record.
	removed, err := reader.Clear(ctx, "userA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	history, err := reader.List(ctx, "userA", domain.DefaultPagination())
	require.NoError(t, err)
	assert.Empty(t, history.Data)
}

// Connected user gets a private notification: seen immediately, exactly
// one live push, nothing left to acknowledge.
func TestFlow_OnlinePrivateNotification(t *testing.T) {
	store := newMemStore()
	recipients := newMemRecipients("userB")
	registry := presence.NewRegistry()

	handle := &countingHandle{}
	registry.Connect("userB", handle)

	disp := dispatcher.NewService(store, recipients, registry, nil, nil, nil)
	reader := readstate.NewService(store, nil)
	ctx := context.Background()

	created, err := disp.Publish(ctx, domain.PublishInput{Message: "hi", UserID: "userB"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, domain.StatusSeen, created[0].Status)
	assert.Equal(t, 1, handle.payloads)
	assert.Equal(t, 1, store.inserts)

	acknowledged, err := reader.Acknowledge(ctx, "userB")
	require.NoError(t, err)
	assert.Empty(t, acknowledged)

	history, err := reader.List(ctx, "userB", domain.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, history.Data, 1)
	assert.Equal(t, domain.StatusSeen, history.Data[0].Status)
}

// Foreign ids in an acknowledge or clear request must never leak across
// users; the store predicates enforce ownership.
func TestFlow_CrossUserIsolation(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	mine := &domain.Notification{ID: uuid.New(), UserID: "userA", Message: "a", Status: domain.StatusUnseen}
	theirs := &domain.Notification{ID: uuid.New(), UserID: "userB", Message: "b", Status: domain.StatusUnseen}
	require.NoError(t, store.Create(ctx, mine))
	require.NoError(t, store.Create(ctx, theirs))

	// userA tries to mark both; only their own row changes.
	count, err := store.MarkSeen(ctx, "userA", []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unseen, err := store.ListByStatus(ctx, "userB", domain.StatusUnseen)
	require.NoError(t, err)
	assert.Len(t, unseen, 1)

	// userA tries to delete both ids; only their own seen row goes.
	removed, err := store.DeleteSeen(ctx, "userA", []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	unseen, err = store.ListByStatus(ctx, "userB", domain.StatusUnseen)
	require.NoError(t, err)
	assert.Len(t, unseen, 1)
}

// Deletion never discards an unacknowledged notification, even when its
// id is explicitly requested.
func TestFlow_DeleteSeenIgnoresUnseen(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	n := &domain.Notification{ID: uuid.New(), UserID: "userA", Message: "a", Status: domain.StatusUnseen}
	require.NoError(t, store.Create(ctx, n))

	removed, err := store.DeleteSeen(ctx, "userA", []uuid.UUID{n.ID})
	require.NoError(t, err)
	assert.Zero(t, removed)

	unseen, err := store.ListByStatus(ctx, "userA", domain.StatusUnseen)
	require.NoError(t, err)
	assert.Len(t, unseen, 1)
}
