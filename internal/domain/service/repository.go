package service

import "context"

// Repository はサービスリポジトリのインターフェース
type Repository interface {
	// Create は新しいサービスを作成する
	Create(ctx context.Context, s *Service) error

	// GetByID はIDからサービスを取得する
	GetByID(ctx context.Context, id int64) (*Service, error)

	// GetByIDs は複数IDからサービスを取得する（存在しないIDは無視される）
	GetByIDs(ctx context.Context, ids []int64) ([]*Service, error)

	// GetAll は全サービスを取得する
	GetAll(ctx context.Context) ([]*Service, error)
}
