package reservation

import (
	"time"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
	// StatusProcessing は決済処理中を示す遷移的なマーカー
	// 決済レイヤーが設定し、客室状態同期ではPENDING/ACTIVEと同様に扱う
	StatusProcessing Status = "processing"
)

// ValidInitialStatus は予約作成時に指定できるステータスかを返す
// （支払い状況に応じて受付レイヤーがPENDINGかACTIVEを決める）
func ValidInitialStatus(s Status) bool {
	switch s {
	case StatusPending, StatusActive, StatusProcessing:
		return true
	}
	return false
}

// PaymentStatus は支払いの完了状態を表す
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Payment は予約に紐づく支払い記録を表す
type Payment struct {
	ID     int64
	Status PaymentStatus
}

// IsCompleted は支払いが完了しているかを返す
func (p *Payment) IsCompleted() bool {
	return p != nil && p.Status == PaymentCompleted
}

// Reservation は予約エンティティを表す
// 顧客と客室へはID参照のみを持ち、所有関係は持たない
// 状態遷移はライフサイクル操作を通じてのみ行う
type Reservation struct {
	ID             int64
	CustomerID     int64
	RoomID         int64
	StartDate      time.Time // 滞在開始日（UTC日付）
	EndDate        time.Time // 滞在終了日（UTC日付、StartDateより後）
	Status         Status
	ActualCheckIn  *time.Time // 実際のチェックイン日（チェックイン時のみ設定）
	ActualCheckOut *time.Time // 実際のチェックアウト日
	BaseAmount     float64
	Discount       float64
	Services       []service.Service
	Payment        *Payment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewReservation は新しい予約を作成する
func NewReservation(customerID, roomID int64, start, end time.Time, baseAmount float64, status Status) *Reservation {
	now := time.Now()
	return &Reservation{
		CustomerID: customerID,
		RoomID:     roomID,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
		BaseAmount: baseAmount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.CustomerID == 0 {
		return ErrCustomerRequired
	}
	if r.RoomID == 0 {
		return ErrRoomRequired
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrDatesRequired
	}
	if !r.StartDate.Before(r.EndDate) {
		return ErrInvalidDateRange
	}
	if r.Discount < 0 {
		return ErrInvalidDiscount
	}
	return nil
}

// IsTerminal は終端状態（FINALIZED/CANCELLED）かを返す
// 終端状態からの遷移は存在しない
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusFinalized || r.Status == StatusCancelled
}

// IsCurrent は未解決（PENDING/ACTIVE）の予約かを返す
func (r *Reservation) IsCurrent() bool {
	return r.Status == StatusPending || r.Status == StatusActive
}

// ServicesTotal は付随サービスの合計金額を返す
func (r *Reservation) ServicesTotal() float64 {
	var total float64
	for _, s := range r.Services {
		total += s.Price
	}
	return total
}

// Total は予約の合計金額を返す
// 基本料金 + サービス合計 - 割引、下限は0
func (r *Reservation) Total() float64 {
	total := r.BaseAmount + r.ServicesTotal() - r.Discount
	if total < 0 {
		return 0
	}
	return total
}

// EffectiveEnd は空室判定に使う実効終了日を返す
// 早期チェックアウト済みのFINALIZED予約は実際の退出日以降を解放する
func (r *Reservation) EffectiveEnd() time.Time {
	if r.Status == StatusFinalized && r.ActualCheckOut != nil {
		return *r.ActualCheckOut
	}
	return r.EndDate
}

// CoversDay は予約期間が指定日を含むか（start <= day < end）を返す
func (r *Reservation) CoversDay(day time.Time) bool {
	return !r.StartDate.After(day) && r.EndDate.After(day)
}

// CheckIn は予約をACTIVEにし、実際のチェックイン日を記録する
func (r *Reservation) CheckIn(date time.Time) error {
	if r.IsTerminal() {
		return ErrReservationTerminal
	}
	r.Status = StatusActive
	r.ActualCheckIn = &date
	r.UpdatedAt = time.Now()
	return nil
}

// CheckOut は予約をFINALIZEDにし、実際のチェックアウト日を記録する
func (r *Reservation) CheckOut(date time.Time) error {
	if r.Status == StatusCancelled {
		return ErrReservationAlreadyCancelled
	}
	if r.Status == StatusFinalized {
		return ErrReservationAlreadyFinalized
	}
	r.Status = StatusFinalized
	r.ActualCheckOut = &date
	r.UpdatedAt = time.Now()
	return nil
}

// Finalize は予約をFINALIZEDにする（冪等）
// 既に終端状態なら何もしない。実際のチェックアウト日は未設定の場合のみ補完する
// 変更が行われた場合にtrueを返す
func (r *Reservation) Finalize(date time.Time) bool {
	if r.IsTerminal() {
		return false
	}
	r.Status = StatusFinalized
	if r.ActualCheckOut == nil {
		r.ActualCheckOut = &date
	}
	r.UpdatedAt = time.Now()
	return true
}

// Cancel は予約をキャンセルする
// PENDING/ACTIVEからのみ許可される。支払い完了済みの予約はスタッフのみ
// キャンセルできる（staffは呼び出し側が判定済みのフラグ）
func (r *Reservation) Cancel(staff bool) error {
	if r.Status == StatusCancelled {
		return ErrReservationAlreadyCancelled
	}
	if r.Status == StatusFinalized {
		return ErrCancelFinalized
	}
	if !staff && r.Payment.IsCompleted() {
		return ErrPaidCancellation
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}
