package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
)

// NotificationEntry はスタッフ向け通知の1行
type NotificationEntry struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Severity  string    `db:"severity"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

// NotificationRepository はスタッフ向け通知をPostgreSQLに保存する
type NotificationRepository struct{ db *sqlx.DB }

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Notify は通知を保存する
func (r *NotificationRepository) Notify(ctx context.Context, n effect.Notification) error {
	query := `INSERT INTO notifications (title, message, severity) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, n.Title, n.Message, string(n.Severity)); err != nil {
		return fmt.Errorf("通知保存に失敗: %w", err)
	}
	return nil
}

// ListUnread は未読通知を新しい順に返す
func (r *NotificationRepository) ListUnread(ctx context.Context) ([]NotificationEntry, error) {
	var entries []NotificationEntry
	query := `SELECT id, title, message, severity, read, created_at FROM notifications WHERE read = FALSE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("通知一覧取得に失敗: %w", err)
	}
	return entries, nil
}

// MarkRead は通知を既読にする
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("通知の既読化に失敗: %w", err)
	}
	return nil
}

var _ effect.NotificationSink = (*NotificationRepository)(nil)
