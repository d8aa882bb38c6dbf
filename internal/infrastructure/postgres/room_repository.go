package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

type roomRow struct {
	ID        int64     `db:"id"`
	Number    string    `db:"number"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	query := `INSERT INTO rooms (number, status, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, rm.Number, string(rm.Status), rm.CreatedAt, rm.UpdatedAt).Scan(&rm.ID); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return room.ErrRoomNumberTaken
		}
		return fmt.Errorf("客室作成に失敗: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*room.Room, error) {
	var row roomRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, number, status, created_at, updated_at FROM rooms WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}
	return toRoom(&row), nil
}

func (r *RoomRepository) GetByNumber(ctx context.Context, number string) (*room.Room, error) {
	var row roomRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, number, status, created_at, updated_at FROM rooms WHERE number = $1`, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}
	return toRoom(&row), nil
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]*room.Room, error) {
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, number, status, created_at, updated_at FROM rooms ORDER BY number`); err != nil {
		return nil, fmt.Errorf("客室一覧取得に失敗: %w", err)
	}
	result := make([]*room.Room, len(rows))
	for i := range rows {
		result[i] = toRoom(&rows[i])
	}
	return result, nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id int64, status room.Status) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx, `UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("客室状態の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

func toRoom(row *roomRow) *room.Room {
	return &room.Room{
		ID: row.ID, Number: row.Number, Status: room.Status(row.Status),
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ room.Repository = (*RoomRepository)(nil)
