package service

import "time"

// Service は予約に付随する追加サービス（朝食・スパ等）を表す
type Service struct {
	ID        int64
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewService は新しいサービスを作成する
func NewService(name string, price float64) *Service {
	now := time.Now()
	return &Service{
		Name:      name,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate はサービスの検証を行う
func (s *Service) Validate() error {
	if s.Name == "" {
		return ErrServiceNameRequired
	}
	if s.Price < 0 {
		return ErrInvalidServicePrice
	}
	return nil
}
