package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"notify-hub/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListByStatus(ctx context.Context, userID string, status domain.NotificationStatus) ([]domain.Notification, error)
	MarkSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error)
	DeleteSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error)
	CountUnseen(ctx context.Context, userID string) (int64, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Message, notif.Status,
	).Scan(&notif.CreatedAt)
	if err != nil {
		return storageErr("insert notification", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, storageErr("count notifications", err)
	}

	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, storageErr("list notifications", err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) ListByStatus(ctx context.Context, userID string, status domain.NotificationStatus) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &notifications, query, userID, status, domain.MaxPageSize); err != nil {
		return nil, storageErr("list notifications by status", err)
	}
	return notifications, nil
}

// MarkSeen flips matching unseen rows for userID to seen and reports how
// many changed. Ids owned by someone else, or already seen, simply do not
// match the predicate; they are ignored rather than rejected.
func (r *notificationRepository) MarkSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE notifications
		SET status = 'seen', seen_at = NOW()
		WHERE user_id = $1 AND status = 'unseen' AND id = ANY($2)`
	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, storageErr("mark notifications seen", err)
	}
	return res.RowsAffected()
}

// DeleteSeen removes matching seen rows only. An unseen id in the set is
// never deleted: deletion must not discard an unacknowledged notification.
func (r *notificationRepository) DeleteSeen(ctx context.Context, userID string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM notifications
		WHERE user_id = $1 AND status = 'seen' AND id = ANY($2)`
	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, storageErr("delete seen notifications", err)
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnseen(ctx context.Context, userID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND status = 'unseen'`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, storageErr("count unseen notifications", err)
	}
	return count, nil
}

// DeleteOlderThan is the retention sweep; it removes records regardless of
// status once they exceed the configured age.
func (r *notificationRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	query := `DELETE FROM notifications WHERE created_at < NOW() - $1::interval`
	res, err := r.db.ExecContext(ctx, query, fmt.Sprintf("%d seconds", int64(age.Seconds())))
	if err != nil {
		return 0, storageErr("sweep old notifications", err)
	}
	return res.RowsAffected()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}
