package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notify-hub/internal/domain"
)

type RecipientRepository struct {
	mock.Mock
}

func (m *RecipientRepository) Upsert(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *RecipientRepository) SetEmail(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *RecipientRepository) GetByID(ctx context.Context, userID string) (*domain.Recipient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipient), args.Error(1)
}

func (m *RecipientRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
