package application

import (
	"context"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
)

// CatalogService は予約に付随する追加サービス（朝食・送迎など）の台帳を扱う
type CatalogService struct {
	serviceRepo service.Repository
}

// NewCatalogService は新しいCatalogServiceを作成する
func NewCatalogService(sr service.Repository) *CatalogService {
	return &CatalogService{serviceRepo: sr}
}

// CreateService は新しい追加サービスを登録する
func (s *CatalogService) CreateService(ctx context.Context, name string, price float64) (*service.Service, error) {
	svc := service.NewService(name, price)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// GetService はIDから追加サービスを取得する
func (s *CatalogService) GetService(ctx context.Context, id int64) (*service.Service, error) {
	return s.serviceRepo.GetByID(ctx, id)
}

// ListServices は追加サービスの一覧を返す
func (s *CatalogService) ListServices(ctx context.Context) ([]*service.Service, error) {
	return s.serviceRepo.GetAll(ctx)
}
