package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

type reservationRow struct {
	ID             int64      `db:"id"`
	CustomerID     int64      `db:"customer_id"`
	RoomID         int64      `db:"room_id"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        time.Time  `db:"end_date"`
	Status         string     `db:"status"`
	ActualCheckIn  *time.Time `db:"actual_check_in"`
	ActualCheckOut *time.Time `db:"actual_check_out"`
	BaseAmount     float64    `db:"base_amount"`
	Discount       float64    `db:"discount"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	PaymentID      *int64     `db:"payment_id"`
	PaymentStatus  *string    `db:"payment_status"`
}

const reservationColumns = `r.id, r.customer_id, r.room_id, r.start_date, r.end_date, r.status,
	r.actual_check_in, r.actual_check_out, r.base_amount, r.discount, r.created_at, r.updated_at,
	p.id AS payment_id, p.status AS payment_status`

const reservationBaseQuery = `SELECT ` + reservationColumns + `
	FROM reservations r
	LEFT JOIN payments p ON p.reservation_id = r.id`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO reservations (customer_id, room_id, start_date, end_date, status, actual_check_in, actual_check_out, base_amount, discount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		res.CustomerID, res.RoomID, res.StartDate, res.EndDate, string(res.Status),
		res.ActualCheckIn, res.ActualCheckOut, res.BaseAmount, res.Discount,
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID); err != nil {
		return mapReservationWriteError(err, res)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE reservations SET customer_id = $1, room_id = $2, start_date = $3, end_date = $4,
		status = $5, actual_check_in = $6, actual_check_out = $7, base_amount = $8, discount = $9, updated_at = $10
		WHERE id = $11`
	result, err := sqlxTx.ExecContext(ctx, query,
		res.CustomerID, res.RoomID, res.StartDate, res.EndDate, string(res.Status),
		res.ActualCheckIn, res.ActualCheckOut, res.BaseAmount, res.Discount,
		res.UpdatedAt, res.ID,
	)
	if err != nil {
		return mapReservationWriteError(err, res)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	sqlxTx := UnwrapTx(tx)
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) DeleteByCustomerID(ctx context.Context, tx transaction.Tx, customerID int64) error {
	sqlxTx := UnwrapTx(tx)
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("顧客予約の一括削除に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, reservationBaseQuery+` WHERE r.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	svcs, err := r.getServices(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReservation(&row, svcs), nil
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*reservation.Reservation, error) {
	return r.selectMany(ctx, reservationBaseQuery+` ORDER BY r.id`)
}

func (r *ReservationRepository) List(ctx context.Context, limit, offset int) ([]*reservation.Reservation, error) {
	return r.selectMany(ctx, reservationBaseQuery+` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ReservationRepository) GetByRoomID(ctx context.Context, roomID int64) ([]*reservation.Reservation, error) {
	return r.selectMany(ctx, reservationBaseQuery+` WHERE r.room_id = $1 ORDER BY r.start_date`, roomID)
}

func (r *ReservationRepository) GetByCustomerID(ctx context.Context, customerID int64) ([]*reservation.Reservation, error) {
	return r.selectMany(ctx, reservationBaseQuery+` WHERE r.customer_id = $1 ORDER BY r.created_at DESC`, customerID)
}

func (r *ReservationRepository) GetOverdueActive(ctx context.Context, day time.Time) ([]*reservation.Reservation, error) {
	return r.selectMany(ctx, reservationBaseQuery+` WHERE r.status = 'active' AND r.end_date < $1`, day)
}

func (r *ReservationRepository) ReplaceServices(ctx context.Context, tx transaction.Tx, reservationID int64, serviceIDs []int64) error {
	sqlxTx := UnwrapTx(tx)
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservation_services WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("予約サービスの削除に失敗: %w", err)
	}
	for _, serviceID := range serviceIDs {
		if _, err := sqlxTx.ExecContext(ctx,
			`INSERT INTO reservation_services (reservation_id, service_id) VALUES ($1, $2)`,
			reservationID, serviceID); err != nil {
			return fmt.Errorf("予約サービスの関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *ReservationRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		svcs, err := r.getServices(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		result[i] = toReservation(&rows[i], svcs)
	}
	return result, nil
}

func (r *ReservationRepository) getServices(ctx context.Context, reservationID int64) ([]service.Service, error) {
	var rows []serviceRow
	query := `SELECT s.id, s.name, s.price, s.created_at, s.updated_at
		FROM services s
		JOIN reservation_services rs ON rs.service_id = s.id
		WHERE rs.reservation_id = $1 ORDER BY s.id`
	if err := r.db.SelectContext(ctx, &rows, query, reservationID); err != nil {
		return nil, fmt.Errorf("予約サービス取得に失敗: %w", err)
	}
	svcs := make([]service.Service, len(rows))
	for i, row := range rows {
		svcs[i] = *toService(&row)
	}
	return svcs, nil
}

func toReservation(row *reservationRow, svcs []service.Service) *reservation.Reservation {
	res := &reservation.Reservation{
		ID: row.ID, CustomerID: row.CustomerID, RoomID: row.RoomID,
		StartDate: row.StartDate, EndDate: row.EndDate,
		Status:        reservation.Status(row.Status),
		ActualCheckIn: row.ActualCheckIn, ActualCheckOut: row.ActualCheckOut,
		BaseAmount: row.BaseAmount, Discount: row.Discount,
		Services:  svcs,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
	if row.PaymentID != nil && row.PaymentStatus != nil {
		res.Payment = &reservation.Payment{
			ID:     *row.PaymentID,
			Status: reservation.PaymentStatus(*row.PaymentStatus),
		}
	}
	return res
}

// mapReservationWriteError はPostgresの制約違反をドメインエラーに変換する
// 排他制約（期間重複）はアプリ側チェックをすり抜けた競合の最終防衛線
func mapReservationWriteError(err error, res *reservation.Reservation) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return &reservation.ConflictError{
			RoomID: res.RoomID,
			Start:  res.StartDate,
			End:    res.EndDate,
		}
	}
	return fmt.Errorf("予約保存に失敗: %w", err)
}

var _ reservation.Repository = (*ReservationRepository)(nil)
