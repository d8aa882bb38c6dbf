package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
)

type serviceRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ServiceRepository struct{ db *sqlx.DB }

func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *service.Service) error {
	query := `INSERT INTO services (name, price, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Price, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
		return fmt.Errorf("サービス作成に失敗: %w", err)
	}
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*service.Service, error) {
	var row serviceRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, name, price, created_at, updated_at FROM services WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrServiceNotFound
		}
		return nil, fmt.Errorf("サービス取得に失敗: %w", err)
	}
	return toService(&row), nil
}

func (r *ServiceRepository) GetByIDs(ctx context.Context, ids []int64) ([]*service.Service, error) {
	if len(ids) == 0 {
		return []*service.Service{}, nil
	}
	var rows []serviceRow
	query := `SELECT id, name, price, created_at, updated_at FROM services WHERE id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("サービス一覧取得に失敗: %w", err)
	}
	result := make([]*service.Service, len(rows))
	for i := range rows {
		result[i] = toService(&rows[i])
	}
	return result, nil
}

func (r *ServiceRepository) GetAll(ctx context.Context) ([]*service.Service, error) {
	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, price, created_at, updated_at FROM services ORDER BY id`); err != nil {
		return nil, fmt.Errorf("サービス一覧取得に失敗: %w", err)
	}
	result := make([]*service.Service, len(rows))
	for i := range rows {
		result[i] = toService(&rows[i])
	}
	return result, nil
}

func toService(row *serviceRow) *service.Service {
	return &service.Service{
		ID: row.ID, Name: row.Name, Price: row.Price,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ service.Repository = (*ServiceRepository)(nil)
