package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
)

type customerRow struct {
	ID           int64     `db:"id"`
	NationalID   string    `db:"national_id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Nationality  string    `db:"nationality"`
	Points       int       `db:"points"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	AccountID    *int64    `db:"account_id"`
	Username     *string   `db:"username"`
	PasswordHash *string   `db:"password_hash"`
	Role         *string   `db:"role"`
}

const customerColumns = `c.id, c.national_id, c.first_name, c.last_name,
	COALESCE(c.email, '') AS email, COALESCE(c.phone, '') AS phone,
	COALESCE(c.nationality, '') AS nationality, c.points, c.created_at, c.updated_at,
	a.id AS account_id, a.username, a.password_hash, a.role`

const customerBaseQuery = `SELECT ` + customerColumns + `
	FROM customers c
	LEFT JOIN accounts a ON a.customer_id = c.id`

type CustomerRepository struct{ db *sqlx.DB }

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, tx transaction.Tx, c *customer.Customer) error {
	sqlxTx := UnwrapTx(tx)
	query := `INSERT INTO customers (national_id, first_name, last_name, email, phone, nationality, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id, created_at, updated_at`
	if err := sqlxTx.QueryRowContext(ctx, query,
		c.NationalID, c.FirstName, c.LastName, c.Email, c.Phone, c.Nationality, c.Points,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return mapCustomerWriteError(err)
	}

	if c.Account != nil {
		if err := sqlxTx.QueryRowContext(ctx,
			`INSERT INTO accounts (customer_id, username, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
			c.ID, c.Account.Username, c.Account.PasswordHash, c.Account.Role,
		).Scan(&c.Account.ID); err != nil {
			return mapCustomerWriteError(err)
		}
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, tx transaction.Tx, c *customer.Customer) error {
	sqlxTx := UnwrapTx(tx)
	query := `UPDATE customers SET national_id = $1, first_name = $2, last_name = $3, email = $4,
		phone = $5, nationality = $6, updated_at = NOW() WHERE id = $7`
	result, err := sqlxTx.ExecContext(ctx, query,
		c.NationalID, c.FirstName, c.LastName, c.Email, c.Phone, c.Nationality, c.ID)
	if err != nil {
		return mapCustomerWriteError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return customer.ErrCustomerNotFound
	}

	// アカウント参照が切り離されている場合は行ごと消す（匿名化時）
	if c.Account == nil {
		if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM accounts WHERE customer_id = $1`, c.ID); err != nil {
			return fmt.Errorf("アカウント削除に失敗: %w", err)
		}
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("顧客削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	return r.getOne(ctx, customerBaseQuery+` WHERE c.id = $1`, id)
}

func (r *CustomerRepository) GetByNationalID(ctx context.Context, nationalID string) (*customer.Customer, error) {
	return r.getOne(ctx, customerBaseQuery+` WHERE c.national_id = $1`, nationalID)
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.getOne(ctx, customerBaseQuery+` WHERE c.email = $1`, email)
}

func (r *CustomerRepository) GetByUsername(ctx context.Context, username string) (*customer.Customer, error) {
	return r.getOne(ctx, customerBaseQuery+` WHERE a.username = $1`, username)
}

func (r *CustomerRepository) List(ctx context.Context, search string, limit, offset int) ([]*customer.Customer, error) {
	var rows []customerRow
	query := customerBaseQuery
	args := []interface{}{}
	if search != "" {
		query += ` WHERE c.national_id ILIKE $1 OR c.first_name ILIKE $1 OR c.last_name ILIKE $1`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
		query += ` ORDER BY c.id LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY c.id LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("顧客一覧取得に失敗: %w", err)
	}
	result := make([]*customer.Customer, len(rows))
	for i := range rows {
		result[i] = toCustomer(&rows[i])
	}
	return result, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, fmt.Errorf("顧客数取得に失敗: %w", err)
	}
	return count, nil
}

func (r *CustomerRepository) AddPoints(ctx context.Context, tx transaction.Tx, id int64, points int) error {
	sqlxTx := UnwrapTx(tx)
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE customers SET points = points + $1, updated_at = NOW() WHERE id = $2`, points, id)
	if err != nil {
		return fmt.Errorf("ポイント加算に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) getOne(ctx context.Context, query string, arg interface{}) (*customer.Customer, error) {
	var row customerRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("顧客取得に失敗: %w", err)
	}
	return toCustomer(&row), nil
}

func toCustomer(row *customerRow) *customer.Customer {
	c := &customer.Customer{
		ID: row.ID, NationalID: row.NationalID,
		FirstName: row.FirstName, LastName: row.LastName,
		Email: row.Email, Phone: row.Phone, Nationality: row.Nationality,
		Points:    row.Points,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
	if row.AccountID != nil && row.Username != nil {
		c.Account = &customer.Account{
			ID:           *row.AccountID,
			Username:     *row.Username,
			PasswordHash: deref(row.PasswordHash),
			Role:         deref(row.Role),
		}
	}
	return c
}

// mapCustomerWriteError は一意制約違反を対応するドメインエラーに変換する
func mapCustomerWriteError(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.Constraint, "national_id"):
			return customer.ErrNationalIDTaken
		case strings.Contains(pgErr.Constraint, "email"):
			return customer.ErrEmailTaken
		case strings.Contains(pgErr.Constraint, "username"):
			return customer.ErrUsernameTaken
		}
	}
	return fmt.Errorf("顧客保存に失敗: %w", err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ customer.Repository = (*CustomerRepository)(nil)
