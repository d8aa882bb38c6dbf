package room

import (
	"context"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

// Repository は客室リポジトリのインターフェース
type Repository interface {
	// Create は新しい客室を作成する
	Create(ctx context.Context, r *Room) error

	// GetByID はIDから客室を取得する
	GetByID(ctx context.Context, id int64) (*Room, error)

	// GetByNumber は客室番号から客室を取得する
	GetByNumber(ctx context.Context, number string) (*Room, error)

	// GetAll は全客室を取得する
	GetAll(ctx context.Context) ([]*Room, error)

	// UpdateStatus は客室の物理状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, id int64, status Status) error
}
