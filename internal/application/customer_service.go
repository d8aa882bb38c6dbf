package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/metrics"
)

// DeletionOutcome は顧客削除要求の結末を表す
type DeletionOutcome string

const (
	// OutcomeAnonymized は匿名化（予約・売上履歴は保持）
	OutcomeAnonymized DeletionOutcome = "anonymized"
	// OutcomeErased は物理削除（痕跡を残さない）
	OutcomeErased DeletionOutcome = "erased"
)

// CustomerService は顧客の登録・更新・削除ポリシーを統括する
// 削除時は予約履歴に応じて匿名化と物理削除を使い分ける
type CustomerService struct {
	txManager       transaction.Manager
	customerRepo    customer.Repository
	reservationRepo reservation.Repository
	roomRepo        room.Repository
	effects         *effect.Runner
	metrics         *metrics.Metrics
}

// NewCustomerService は新しいCustomerServiceを作成する
func NewCustomerService(
	tm transaction.Manager,
	cr customer.Repository,
	rr reservation.Repository,
	roomRepo room.Repository,
	effects *effect.Runner,
	m *metrics.Metrics,
) *CustomerService {
	return &CustomerService{
		txManager:       tm,
		customerRepo:    cr,
		reservationRepo: rr,
		roomRepo:        roomRepo,
		effects:         effects,
		metrics:         m,
	}
}

type CreateCustomerInput struct {
	NationalID  string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Nationality string
	// Username/Passwordが両方空の場合、ログインアカウントは作成しない
	Username string
	Password string
}

// CreateCustomer は新しい顧客を登録する
// 国民IDとメールアドレスの一意性を検証し、認証情報が与えられた場合は
// bcryptでハッシュ化したアカウントを紐づける
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*customer.Customer, error) {
	cust := &customer.Customer{
		NationalID:  input.NationalID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Nationality: input.Nationality,
	}
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNationalIDUnique(ctx, input.NationalID, 0); err != nil {
		return nil, err
	}
	if err := s.ensureEmailUnique(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	if input.Username != "" || input.Password != "" {
		account, err := s.buildAccount(ctx, input.Username, input.Password)
		if err != nil {
			return nil, err
		}
		cust.Account = account
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.customerRepo.Create(ctx, tx, cust); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	buf := &effect.Buffer{}
	buf.RecordAudit("CUSTOMER_CREATED",
		fmt.Sprintf("新規顧客を登録: %s %s (国民ID: %s)", cust.FirstName, cust.LastName, cust.NationalID),
		"Customer", cust.ID)
	s.effects.Dispatch(ctx, buf)

	logger.Info("顧客を登録", zap.Int64("customer_id", cust.ID))
	return cust, nil
}

type UpdateCustomerInput struct {
	ID          int64
	NationalID  string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Nationality string
}

// UpdateCustomer は既存顧客の個人情報を更新する
// 更新にはIDが必須で、国民ID・メールの変更時は一意性を再検証する
func (s *CustomerService) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*customer.Customer, error) {
	if input.ID == 0 {
		return nil, customer.ErrCustomerIDRequired
	}
	cust, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.NationalID != cust.NationalID {
		if err := s.ensureNationalIDUnique(ctx, input.NationalID, cust.ID); err != nil {
			return nil, err
		}
	}
	if input.Email != "" && input.Email != cust.Email {
		if err := s.ensureEmailUnique(ctx, input.Email, cust.ID); err != nil {
			return nil, err
		}
	}

	cust.NationalID = input.NationalID
	cust.FirstName = input.FirstName
	cust.LastName = input.LastName
	cust.Email = input.Email
	cust.Phone = input.Phone
	cust.Nationality = input.Nationality
	if err := cust.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.customerRepo.Update(ctx, tx, cust); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	buf := &effect.Buffer{}
	buf.RecordAudit("CUSTOMER_UPDATED",
		fmt.Sprintf("顧客 %s %s (ID: %d) を更新", cust.FirstName, cust.LastName, cust.ID),
		"Customer", cust.ID)
	s.effects.Dispatch(ctx, buf)

	return cust, nil
}

// DeleteCustomer は顧客削除要求を処理する
//
// 未解決（PENDING/ACTIVE）の予約があれば対象一覧付きの状態競合エラーで拒否する
// 残る予約がCANCELLED/FINALIZEDのみになった上で：
//   - FINALIZED予約が1件でもあれば匿名化（売上レポートの整合性維持のため
//     予約行と金額は保持し、個人識別情報のみ合成プレースホルダーで上書き）
//   - それ以外（キャンセルのみ・予約なし）は顧客・予約・アカウントを物理削除
//
// どちらの経路でも結末を明示して監査に記録する
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) (DeletionOutcome, error) {
	cust, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	reservations, err := s.reservationRepo.GetByCustomerID(ctx, id)
	if err != nil {
		return "", err
	}

	if active := s.activeSummaries(ctx, reservations); len(active) > 0 {
		s.countDeletion("rejected")
		return "", &customer.ActiveReservationsError{CustomerID: id, Reservations: active}
	}

	hasHistory := false
	for _, r := range reservations {
		if r.Status == reservation.StatusFinalized {
			hasHistory = true
			break
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	var outcome DeletionOutcome
	if hasHistory {
		// 履歴あり：匿名化。アカウント参照を切り離した上で
		// 個人識別情報をプレースホルダーに置き換える
		cust.Anonymize()
		if err := s.customerRepo.Update(ctx, tx, cust); err != nil {
			return "", err
		}
		outcome = OutcomeAnonymized
	} else {
		// 履歴なし：予約・顧客・アカウントをすべて消す
		if err := s.reservationRepo.DeleteByCustomerID(ctx, tx, id); err != nil {
			return "", err
		}
		if err := s.customerRepo.Delete(ctx, tx, id); err != nil {
			return "", err
		}
		outcome = OutcomeErased
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("コミットに失敗: %w", err)
	}

	buf := &effect.Buffer{}
	if outcome == OutcomeAnonymized {
		buf.RecordAudit("CUSTOMER_ANONYMIZED",
			fmt.Sprintf("顧客（ID: %d）を匿名化（履歴保持）", id), "Customer", id)
	} else {
		buf.RecordAudit("CUSTOMER_ERASED",
			fmt.Sprintf("顧客（ID: %d）を物理削除（履歴なし）", id), "Customer", id)
	}
	s.effects.Dispatch(ctx, buf)

	s.countDeletion(string(outcome))
	logger.Info("顧客を削除", zap.Int64("customer_id", id), zap.String("outcome", string(outcome)))
	return outcome, nil
}

// GetCustomer はIDから顧客を取得し、派生フィールドを再計算して返す
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	cust, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadDerivedFields(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

// ListCustomers は顧客一覧を取得する
// searchが空でなければ国民ID・姓・名の部分一致で絞り込む
// limitが未指定（0以下）の場合は既定の20件
func (s *CustomerService) ListCustomers(ctx context.Context, search string, limit, offset int) ([]*customer.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := s.customerRepo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, cust := range customers {
		if err := s.loadDerivedFields(ctx, cust); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

// CountCustomers は顧客数を返す
func (s *CustomerService) CountCustomers(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

// ============== 内部ヘルパー ==============

// loadDerivedFields は予約集合から派生フィールド（予約総数・進行中予約・
// 最終滞在日）を再計算する。永続化されない読み取り専用ビュー
func (s *CustomerService) loadDerivedFields(ctx context.Context, cust *customer.Customer) error {
	reservations, err := s.reservationRepo.GetByCustomerID(ctx, cust.ID)
	if err != nil {
		return err
	}

	cust.TotalReservations = int64(len(reservations))
	cust.HasActiveReservation = false
	cust.ActiveReservationID = nil
	cust.LastStay = nil

	for _, r := range reservations {
		if r.IsCurrent() && !cust.HasActiveReservation {
			cust.HasActiveReservation = true
			id := r.ID
			cust.ActiveReservationID = &id
		}
		if r.Status == reservation.StatusFinalized {
			if cust.LastStay == nil || r.EndDate.After(*cust.LastStay) {
				end := r.EndDate
				cust.LastStay = &end
			}
		}
	}
	return nil
}

// activeSummaries は削除を妨げる未解決予約の概要一覧を作る
func (s *CustomerService) activeSummaries(ctx context.Context, reservations []*reservation.Reservation) []customer.ActiveReservationSummary {
	var summaries []customer.ActiveReservationSummary
	for _, r := range reservations {
		if !r.IsCurrent() {
			continue
		}
		roomNumber := "未割当"
		if rm, err := s.roomRepo.GetByID(ctx, r.RoomID); err == nil {
			roomNumber = rm.Number
		}
		summaries = append(summaries, customer.ActiveReservationSummary{
			ReservationID: r.ID,
			RoomNumber:    roomNumber,
			Status:        string(r.Status),
			StartDate:     r.StartDate,
			EndDate:       r.EndDate,
		})
	}
	return summaries
}

func (s *CustomerService) ensureNationalIDUnique(ctx context.Context, nationalID string, excludeID int64) error {
	existing, err := s.customerRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil
		}
		return err
	}
	if excludeID == 0 || existing.ID != excludeID {
		return customer.ErrNationalIDTaken
	}
	return nil
}

func (s *CustomerService) ensureEmailUnique(ctx context.Context, email string, excludeID int64) error {
	if email == "" {
		return nil
	}
	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil
		}
		return err
	}
	if excludeID == 0 || existing.ID != excludeID {
		return customer.ErrEmailTaken
	}
	return nil
}

// buildAccount は認証情報を検証し、bcryptハッシュ済みのアカウントを作る
func (s *CustomerService) buildAccount(ctx context.Context, username, password string) (*customer.Account, error) {
	if username == "" {
		return nil, customer.ErrUsernameRequired
	}
	if password == "" {
		return nil, customer.ErrPasswordRequired
	}
	if _, err := s.customerRepo.GetByUsername(ctx, username); err == nil {
		return nil, customer.ErrUsernameTaken
	} else if !errors.Is(err, customer.ErrCustomerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return &customer.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         customer.RoleCustomer,
	}, nil
}

func (s *CustomerService) countDeletion(outcome string) {
	if s.metrics != nil {
		s.metrics.CustomerDeletionsTotal.WithLabelValues(outcome).Inc()
	}
}
