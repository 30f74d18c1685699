package repository

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const visible = `(business = :business OR business IS NULL) AND (user_id = :user_id OR user_id IS NULL)`

func (r *PGRepository) Create(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	query := `
        INSERT INTO notifications (id, business, user_id, title, message, type, read, created_at)
        VALUES (:id, :business, :user_id, :title, :message, :type, :read, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, notifications)
	return err
}

func (r *PGRepository) List(ctx context.Context, business model.Business, userID string, limit int) ([]model.Notification, error) {
	args := map[string]interface{}{"business": business, "user_id": userID, "limit": limit}
	nstmt, err := r.DB.PrepareNamedContext(ctx, "SELECT * FROM notifications WHERE "+visible+" ORDER BY created_at DESC LIMIT :limit")
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var items []model.Notification
	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) CountUnread(ctx context.Context, business model.Business, userID string) (int, error) {
	args := map[string]interface{}{"business": business, "user_id": userID}
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM notifications WHERE NOT read AND "+visible, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

func (r *PGRepository) MarkRead(ctx context.Context, business model.Business, userID, id string) (bool, error) {
	args := map[string]interface{}{"business": business, "user_id": userID, "id": id}
	res, err := r.DB.NamedExecContext(ctx, "UPDATE notifications SET read = true WHERE id = :id AND "+visible, args)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) MarkAllRead(ctx context.Context, business model.Business, userID string) (int64, error) {
	args := map[string]interface{}{"business": business, "user_id": userID}
	res, err := r.DB.NamedExecContext(ctx, "UPDATE notifications SET read = true WHERE NOT read AND "+visible, args)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
