package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"notify-hub/internal/domain"
)

// RecipientRepository records every user that has ever connected.
// Broadcast fan-out targets this set, which outlives presence.
type RecipientRepository interface {
	Upsert(ctx context.Context, userID string) error
	SetEmail(ctx context.Context, userID, email string) error
	GetByID(ctx context.Context, userID string) (*domain.Recipient, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type recipientRepository struct {
	db *sqlx.DB
}

func NewRecipientRepository(db *sqlx.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) Upsert(ctx context.Context, userID string) error {
	query := `
		INSERT INTO recipients (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET last_seen_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return storageErr("upsert recipient", err)
	}
	return nil
}

func (r *recipientRepository) SetEmail(ctx context.Context, userID, email string) error {
	query := `
		INSERT INTO recipients (user_id, email)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email`
	if _, err := r.db.ExecContext(ctx, query, userID, email); err != nil {
		return storageErr("set recipient email", err)
	}
	return nil
}

func (r *recipientRepository) GetByID(ctx context.Context, userID string) (*domain.Recipient, error) {
	var recipient domain.Recipient
	query := `SELECT * FROM recipients WHERE user_id = $1`
	err := r.db.GetContext(ctx, &recipient, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get recipient", err)
	}
	return &recipient, nil
}

func (r *recipientRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	query := `SELECT user_id FROM recipients ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, storageErr("list recipients", err)
	}
	return ids, nil
}
