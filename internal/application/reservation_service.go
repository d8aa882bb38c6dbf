package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
	redislock "github.com/JeanPieerT/Hotel-Herramientas/internal/infrastructure/redis"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/clock"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/metrics"
)

// LoyaltyPointsPerReservation は新規予約1件あたりの付与ポイント
const LoyaltyPointsPerReservation = 10

// ReservationService は予約ライフサイクルを統括する
// 状態遷移の検証・空室チェック・客室状態の同期を行い、副作用（通知・
// メール・監査）はコミット後にまとめてディスパッチする
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	roomRepo        room.Repository
	customerRepo    customer.Repository
	serviceRepo     service.Repository
	lockManager     *redislock.LockManager
	cache           RoomCache
	clk             clock.Clock
	effects         *effect.Runner
	metrics         *metrics.Metrics
}

// NewReservationService は新しいReservationServiceを作成する
// lockManager・cache・effects・metricsはnil可
func NewReservationService(
	tm transaction.Manager,
	rr reservation.Repository,
	roomRepo room.Repository,
	cr customer.Repository,
	sr service.Repository,
	lm *redislock.LockManager,
	cache RoomCache,
	clk clock.Clock,
	effects *effect.Runner,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		txManager:       tm,
		reservationRepo: rr,
		roomRepo:        roomRepo,
		customerRepo:    cr,
		serviceRepo:     sr,
		lockManager:     lm,
		cache:           cache,
		clk:             clk,
		effects:         effects,
		metrics:         m,
	}
}

type CreateReservationInput struct {
	CustomerID int64
	RoomID     int64
	StartDate  time.Time
	EndDate    time.Time
	BaseAmount float64
	Discount   float64
	// Status は受付レイヤーが決めた初期状態。空ならPENDING
	Status reservation.Status
}

// CreateReservation は新規予約を作成する
// 空室チェックに合格した場合のみ永続化し、顧客へロイヤリティポイントを
// 付与し、確認メールとスタッフ通知を発行する
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	status := input.Status
	if status == "" {
		status = reservation.StatusPending
	}
	if !reservation.ValidInitialStatus(status) {
		return nil, reservation.ErrInvalidStatus
	}

	res := reservation.NewReservation(
		input.CustomerID, input.RoomID,
		clock.Truncate(input.StartDate), clock.Truncate(input.EndDate),
		input.BaseAmount, status,
	)
	res.Discount = input.Discount
	if err := res.Validate(); err != nil {
		s.countOp("create", "rejected")
		return nil, err
	}

	// 同一客室への並行予約を直列化する分散ロック
	// （check-then-persistの競合はDB側の排他制約が最終防衛線）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, roomLockKey(res.RoomID), 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				return nil, fmt.Errorf("客室が他の予約処理中です")
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	rm, err := s.verifyRoomAndAvailability(ctx, res, 0)
	if err != nil {
		s.countOp("create", availabilityOutcome(err))
		return nil, err
	}

	cust, err := s.customerRepo.GetByID(ctx, res.CustomerID)
	if err != nil {
		s.countOp("create", "rejected")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 新規作成時のみロイヤリティポイントを付与
	if err := s.customerRepo.AddPoints(ctx, tx, cust.ID, LoyaltyPointsPerReservation); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		s.countOp("create", availabilityOutcome(err))
		return nil, err
	}
	if err := s.syncRoomOnSave(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("RESERVATION_CREATED",
		fmt.Sprintf("予約を作成: ID=%d, 顧客=%s, 客室=%s", res.ID, customerName(cust), rm.Number),
		"Reservation", res.ID)
	s.appendConfirmationEmail(buf, cust, rm, res)
	buf.Notify("新規予約",
		fmt.Sprintf("新しい予約が作成されました: %s - 客室%s", customerName(cust), rm.Number),
		effect.SeverityInfo)
	s.effects.Dispatch(ctx, buf)

	s.countOp("create", "success")
	logger.Info("予約を作成",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("customer_id", cust.ID),
		zap.String("room", rm.Number),
	)
	return res, nil
}

type UpdateReservationInput struct {
	ID         int64
	CustomerID int64
	RoomID     int64
	StartDate  time.Time
	EndDate    time.Time
	BaseAmount float64
	Discount   float64
	// Status は空なら現状維持
	Status reservation.Status
}

// UpdateReservation は既存予約を更新する
// 終端状態（FINALIZED/CANCELLED）の予約は更新できない
// 存在しないIDは明示的な失敗として扱う
func (s *ReservationService) UpdateReservation(ctx context.Context, input UpdateReservationInput) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if res.IsTerminal() {
		s.countOp("update", "rejected")
		return nil, reservation.ErrReservationTerminal
	}

	res.CustomerID = input.CustomerID
	res.RoomID = input.RoomID
	res.StartDate = clock.Truncate(input.StartDate)
	res.EndDate = clock.Truncate(input.EndDate)
	res.BaseAmount = input.BaseAmount
	res.Discount = input.Discount
	if input.Status != "" {
		if !reservation.ValidInitialStatus(input.Status) {
			return nil, reservation.ErrInvalidStatus
		}
		res.Status = input.Status
	}
	if err := res.Validate(); err != nil {
		s.countOp("update", "rejected")
		return nil, err
	}

	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, roomLockKey(res.RoomID), 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				return nil, fmt.Errorf("客室が他の予約処理中です")
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	rm, err := s.verifyRoomAndAvailability(ctx, res, res.ID)
	if err != nil {
		s.countOp("update", availabilityOutcome(err))
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.syncRoomOnSave(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("RESERVATION_UPDATED",
		fmt.Sprintf("予約を更新: ID=%d, 客室=%s", res.ID, rm.Number),
		"Reservation", res.ID)
	s.effects.Dispatch(ctx, buf)

	s.countOp("update", "success")
	return res, nil
}

// CancelReservation は予約をキャンセルし、客室を解放する
// staffはスタッフ権限での呼び出しか（呼び出し側が判定済みのフラグ）
func (s *ReservationService) CancelReservation(ctx context.Context, id int64, staff bool) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Cancel(staff); err != nil {
		s.countOp("cancel", "rejected")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.releaseRoom(ctx, tx, res.RoomID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("RESERVATION_CANCELLED",
		fmt.Sprintf("予約をキャンセル: ID=%d, スタッフ操作=%t", res.ID, staff),
		"Reservation", res.ID)
	s.effects.Dispatch(ctx, buf)

	s.countOp("cancel", "success")
	logger.Info("予約をキャンセル", zap.Int64("reservation_id", id), zap.Bool("staff", staff))
	return res, nil
}

// CheckIn はチェックインを行う
// 実際のチェックイン日はwhenがnilなら「今日」を用いる
// 存在しないIDは何もしない（nil, nilを返す）
func (s *ReservationService) CheckIn(ctx context.Context, id int64, when *time.Time) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			logger.Debug("チェックイン対象の予約なし", zap.Int64("reservation_id", id))
			return nil, nil
		}
		return nil, err
	}

	date := s.clk.Today()
	if when != nil {
		date = clock.Truncate(*when)
	}
	if err := res.CheckIn(date); err != nil {
		s.countOp("checkin", "rejected")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	// チェックイン時は無条件でOCCUPIED
	if err := s.roomRepo.UpdateStatus(ctx, tx, res.RoomID, room.StatusOccupied); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("CHECK_IN", fmt.Sprintf("チェックイン実施: 予約ID=%d", res.ID), "Reservation", res.ID)
	s.appendStayNotification(ctx, buf, res, "チェックイン")
	s.effects.Dispatch(ctx, buf)

	s.countOp("checkin", "success")
	return res, nil
}

// CheckOut はチェックアウトを行い、予約を完了させ、客室を解放する
// 存在しないIDは何もしない（nil, nilを返す）
func (s *ReservationService) CheckOut(ctx context.Context, id int64, when *time.Time) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			logger.Debug("チェックアウト対象の予約なし", zap.Int64("reservation_id", id))
			return nil, nil
		}
		return nil, err
	}

	date := s.clk.Today()
	if when != nil {
		date = clock.Truncate(*when)
	}
	if err := res.CheckOut(date); err != nil {
		s.countOp("checkout", "rejected")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.releaseRoom(ctx, tx, res.RoomID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("CHECK_OUT", fmt.Sprintf("チェックアウト実施: 予約ID=%d", res.ID), "Reservation", res.ID)
	s.appendStayNotification(ctx, buf, res, "チェックアウト")
	s.effects.Dispatch(ctx, buf)

	s.countOp("checkout", "success")
	return res, nil
}

// FinalizeReservation は予約を完了状態にする（冪等）
// 既に終端状態なら何もしない。実際のチェックアウト日は未設定の場合のみ
// 「今日」で補完する。存在しないIDは何もしない（nil, nilを返す）
func (s *ReservationService) FinalizeReservation(ctx context.Context, id int64) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			logger.Debug("完了対象の予約なし", zap.Int64("reservation_id", id))
			return nil, nil
		}
		return nil, err
	}

	prevStatus := res.Status
	if !res.Finalize(s.clk.Today()) {
		return res, nil
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.releaseRoom(ctx, tx, res.RoomID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("RESERVATION_FINALIZED",
		fmt.Sprintf("予約を完了: ID=%d, 以前の状態=%s", res.ID, prevStatus),
		"Reservation", res.ID)
	s.effects.Dispatch(ctx, buf)

	s.countOp("finalize", "success")
	logger.Info("予約を完了", zap.Int64("reservation_id", id), zap.String("prev_status", string(prevStatus)))
	return res, nil
}

// HardDeleteReservation は予約を物理削除し、客室を解放する
// キャンセルとは異なり行そのものを消す。履歴を残さない顧客削除時に使う
// 存在しないIDの場合はfalseを返す
func (s *ReservationService) HardDeleteReservation(ctx context.Context, id int64) (bool, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return false, nil
		}
		return false, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.releaseRoom(ctx, tx, res.RoomID); err != nil {
		return false, err
	}
	if err := s.reservationRepo.Delete(ctx, tx, id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateRoomCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("RESERVATION_DELETED",
		fmt.Sprintf("予約（ID: %d）を物理削除", id), "Reservation", id)
	s.effects.Dispatch(ctx, buf)

	return true, nil
}

// AssignServices は予約の付随サービスを置き換える
// 存在しないサービスIDは無視される。存在しない予約IDは何もしない
func (s *ReservationService) AssignServices(ctx context.Context, reservationID int64, serviceIDs []int64) error {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil
		}
		return err
	}

	svcs, err := s.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return err
	}
	ids := make([]int64, len(svcs))
	for i, sv := range svcs {
		ids[i] = sv.ID
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.ReplaceServices(ctx, tx, res.ID, ids); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	buf := &effect.Buffer{}
	buf.RecordAudit("SERVICES_ASSIGNED",
		fmt.Sprintf("予約ID=%dにサービス%d件を割り当て", res.ID, len(ids)), "Reservation", res.ID)
	s.effects.Dispatch(ctx, buf)
	return nil
}

// FinalizeOverdueStays は予約終了日を過ぎたACTIVE予約をまとめて完了させる
// バックグラウンドワーカーから定期的に呼ばれる。完了させた件数を返す
func (s *ReservationService) FinalizeOverdueStays(ctx context.Context) (int, error) {
	overdue, err := s.reservationRepo.GetOverdueActive(ctx, s.clk.Today())
	if err != nil {
		return 0, fmt.Errorf("期限超過予約の取得に失敗: %w", err)
	}

	count := 0
	for _, r := range overdue {
		if _, err := s.FinalizeReservation(ctx, r.ID); err != nil {
			logger.Warn("期限超過予約の完了に失敗", zap.Int64("reservation_id", r.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

// GetReservation はIDから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// ListReservations は新しい順に予約一覧を取得する
func (s *ReservationService) ListReservations(ctx context.Context, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservationRepo.List(ctx, limit, offset)
}

// GetCustomerReservations は顧客の予約一覧を取得する
func (s *ReservationService) GetCustomerReservations(ctx context.Context, customerID int64) ([]*reservation.Reservation, error) {
	return s.reservationRepo.GetByCustomerID(ctx, customerID)
}

// ============== 内部ヘルパー ==============

// verifyRoomAndAvailability は客室が稼働中で、候補期間に競合がないことを確認する
func (s *ReservationService) verifyRoomAndAvailability(ctx context.Context, res *reservation.Reservation, excludeID int64) (*room.Room, error) {
	rm, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsOperational() {
		return nil, room.ErrRoomUnderMaintenance
	}

	existing, err := s.reservationRepo.GetByRoomID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	if err := reservation.CheckAvailability(existing, res.StartDate, res.EndDate, excludeID); err != nil {
		return nil, err
	}
	return rm, nil
}

// syncRoomOnSave は保存後の客室状態を導出して適用する
// 予約期間が「今日」を含み、状態がPENDING/ACTIVE/PROCESSINGのときのみOCCUPIED
func (s *ReservationService) syncRoomOnSave(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	today := s.clk.Today()
	coversToday := !today.Before(res.StartDate) && !today.After(res.EndDate)
	if !coversToday {
		return nil
	}
	switch res.Status {
	case reservation.StatusPending, reservation.StatusActive, reservation.StatusProcessing:
		return s.roomRepo.UpdateStatus(ctx, tx, res.RoomID, room.StatusOccupied)
	}
	return nil
}

// releaseRoom は客室を無条件でAVAILABLEに戻す
// 同じ客室の別予約は考慮しない（後勝ち）
func (s *ReservationService) releaseRoom(ctx context.Context, tx transaction.Tx, roomID int64) error {
	return s.roomRepo.UpdateStatus(ctx, tx, roomID, room.StatusAvailable)
}

// invalidateRoomCache は客室状態の変化後にキャッシュを破棄する
func (s *ReservationService) invalidateRoomCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("客室一覧キャッシュの無効化に失敗", zap.Error(err))
	}
}

// appendConfirmationEmail は予約状態に応じた文面の確認メールを副作用に積む
func (s *ReservationService) appendConfirmationEmail(buf *effect.Buffer, cust *customer.Customer, rm *room.Room, res *reservation.Reservation) {
	if cust.Email == "" {
		return
	}
	start := res.StartDate.Format("2006-01-02")
	end := res.EndDate.Format("2006-01-02")

	if res.Status == reservation.StatusPending {
		buf.SendEmail(cust.Email,
			"ご予約受付 - お支払い待ち",
			fmt.Sprintf("%s 様\n\nご予約を受け付けました。\n現在の状態: お支払い待ち\n\nご予約内容:\n- 客室: %s\n- ご到着日: %s\n- ご出発日: %s\n- ご請求額: %.2f\n\nお支払いの完了をもってご予約が確定いたします。",
				customerName(cust), rm.Number, start, end, res.Total()))
		return
	}
	buf.SendEmail(cust.Email,
		"ご予約確認",
		fmt.Sprintf("%s 様\n\nご予約が確定いたしました。\n\nご予約内容:\n- 客室: %s\n- ご到着日: %s\n- ご出発日: %s\n- ご請求額: %.2f\n\nご利用をお待ちしております。",
			customerName(cust), rm.Number, start, end, res.Total()))
}

// appendStayNotification はチェックイン/アウトのスタッフ通知を副作用に積む
// 顧客・客室の参照に失敗した場合は通知を諦める（ベストエフォート）
func (s *ReservationService) appendStayNotification(ctx context.Context, buf *effect.Buffer, res *reservation.Reservation, event string) {
	cust, err := s.customerRepo.GetByID(ctx, res.CustomerID)
	if err != nil {
		return
	}
	rm, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		return
	}
	buf.Notify(event,
		fmt.Sprintf("%s実施: %s - 客室%s", event, customerName(cust), rm.Number),
		effect.SeverityInfo)
}

func (s *ReservationService) countOp(operation, status string) {
	if s.metrics != nil {
		s.metrics.ReservationOperationsTotal.WithLabelValues(operation, status).Inc()
	}
}

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("room:%d", roomID)
}

func customerName(c *customer.Customer) string {
	return c.FirstName + " " + c.LastName
}

// availabilityOutcome はエラーをメトリクス用の結果ラベルに変換する
func availabilityOutcome(err error) string {
	var conflict *reservation.ConflictError
	if errors.As(err, &conflict) {
		return "conflict"
	}
	return "rejected"
}
