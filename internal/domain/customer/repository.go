package customer

import (
	"context"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

// Repository は顧客リポジトリのインターフェース
type Repository interface {
	// Create は新しい顧客（と紐づくアカウント）を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, c *Customer) error

	// Update は顧客を更新する（トランザクション必須）
	// Accountがnilの場合、紐づくアカウント行も削除される
	Update(ctx context.Context, tx transaction.Tx, c *Customer) error

	// Delete は顧客と紐づくアカウントを物理削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id int64) error

	// GetByID はIDから顧客を取得する
	GetByID(ctx context.Context, id int64) (*Customer, error)

	// GetByNationalID は国民IDから顧客を取得する
	GetByNationalID(ctx context.Context, nationalID string) (*Customer, error)

	// GetByEmail はメールアドレスから顧客を取得する
	GetByEmail(ctx context.Context, email string) (*Customer, error)

	// GetByUsername は紐づくアカウントのユーザー名から顧客を取得する
	GetByUsername(ctx context.Context, username string) (*Customer, error)

	// List は顧客一覧を取得する。searchが空でなければ国民ID・姓・名の
	// 部分一致（大文字小文字無視）で絞り込む
	List(ctx context.Context, search string, limit, offset int) ([]*Customer, error)

	// Count は顧客数を返す
	Count(ctx context.Context) (int64, error)

	// AddPoints はロイヤリティポイントを加算する（トランザクション必須）
	AddPoints(ctx context.Context, tx transaction.Tx, id int64, points int) error
}
