package mysql

import (
	"context"

	"github.com/iliyamo/movie-crowdfund/internal/model"
)

// CreateNotification inserts a notification row.
func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (id, user_id, message, type, `read`, created_at) VALUES (?,?,?,?,?,?)",
		n.ID, n.UserID, n.Message, n.Type, n.Read, n.CreatedAt)
	return err
}

// ListNotifications returns the user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, message, type, `read`, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
