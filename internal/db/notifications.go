package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

func InsertNotification(ctx context.Context, database *sql.DB, n models.Notification) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, kind, body)
		VALUES ($1, $2, $3) RETURNING id`,
		n.UserID, n.Kind, n.Body).Scan(&id)
	return id, err
}

// ListNotificationsSince backs the "recent" feed; callers pass
// now minus the configured window.
func ListNotificationsSince(ctx context.Context, database *sql.DB, userID int64, since time.Time) ([]models.Notification, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, user_id, kind, body, created_at
		FROM notifications
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// HasNotificationSince dedupes job alerts (one per crossing / per day).
func HasNotificationSince(ctx context.Context, database *sql.DB, userID int64, kind string, since time.Time) (bool, error) {
	var exists bool
	err := database.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND kind = $2 AND created_at >= $3
		)`, userID, kind, since).Scan(&exists)
	return exists, err
}
