package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
)

// AuditEntry は監査ログの1行
type AuditEntry struct {
	ID         int64     `db:"id"`
	Action     string    `db:"action"`
	Detail     string    `db:"detail"`
	EntityType string    `db:"entity_type"`
	EntityID   int64     `db:"entity_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// AuditRepository は監査ログをPostgreSQLに記録する
type AuditRepository struct{ db *sqlx.DB }

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record は監査エントリを追記する
func (r *AuditRepository) Record(ctx context.Context, a effect.Audit) error {
	query := `INSERT INTO audit_log (action, detail, entity_type, entity_id) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, a.Action, a.Description, a.EntityType, a.EntityID); err != nil {
		return fmt.Errorf("監査ログ記録に失敗: %w", err)
	}
	return nil
}

// ListByEntity は対象エンティティの監査履歴を新しい順に返す
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]AuditEntry, error) {
	var entries []AuditEntry
	query := `SELECT id, action, detail, entity_type, entity_id, created_at
		FROM audit_log WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &entries, query, entityType, entityID); err != nil {
		return nil, fmt.Errorf("監査ログ取得に失敗: %w", err)
	}
	return entries, nil
}

var _ effect.AuditSink = (*AuditRepository)(nil)
