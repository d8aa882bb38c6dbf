package reservation

import (
	"errors"
	"fmt"
	"time"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = errors.New("予約が見つかりません")
	ErrCustomerRequired            = errors.New("予約には顧客の指定が必須です")
	ErrRoomRequired                = errors.New("予約には客室の指定が必須です")
	ErrDatesRequired               = errors.New("滞在開始日と終了日は必須です")
	ErrInvalidDateRange            = errors.New("滞在開始日は終了日より前である必要があります")
	ErrInvalidDiscount             = errors.New("割引額は0以上である必要があります")
	ErrInvalidStatus               = errors.New("予約ステータスが不正です")
	ErrReservationTerminal         = errors.New("終端状態の予約は変更できません")
	ErrReservationAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrReservationAlreadyFinalized = errors.New("予約は既に完了しています")
	ErrCancelFinalized             = errors.New("完了済みの予約はキャンセルできません")
	ErrPaidCancellation            = errors.New("支払い済みの予約はキャンセルできません。返金・キャンセルはフロントまでご連絡ください")
)

// ConflictError は日付範囲の競合を表すバリデーションエラー
// 利用できない範囲を保持する
type ConflictError struct {
	RoomID        int64
	ReservationID int64
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("客室は選択された日付で既に予約されています（%s〜%s）",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}
