package reservation

import (
	"context"
	"time"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// Delete は予約を物理削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id int64) error

	// DeleteByCustomerID は顧客の全予約を物理削除する（トランザクション必須）
	DeleteByCustomerID(ctx context.Context, tx transaction.Tx, customerID int64) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id int64) (*Reservation, error)

	// GetAll は全予約を取得する
	GetAll(ctx context.Context) ([]*Reservation, error)

	// List は新しい順に予約一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Reservation, error)

	// GetByRoomID は客室の全予約を取得する
	GetByRoomID(ctx context.Context, roomID int64) ([]*Reservation, error)

	// GetByCustomerID は顧客の全予約を取得する
	GetByCustomerID(ctx context.Context, customerID int64) ([]*Reservation, error)

	// GetOverdueActive は予約終了日が指定日より前のACTIVE予約を取得する
	GetOverdueActive(ctx context.Context, day time.Time) ([]*Reservation, error)

	// ReplaceServices は予約の付随サービスを置き換える（トランザクション必須）
	ReplaceServices(ctx context.Context, tx transaction.Tx, reservationID int64, serviceIDs []int64) error
}
