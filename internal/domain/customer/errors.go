package customer

import (
	"errors"
	"fmt"
	"time"
)

// Customer ドメインのエラー定義
var (
	ErrCustomerNotFound   = errors.New("顧客が見つかりません")
	ErrCustomerIDRequired = errors.New("更新には顧客IDが必須です")
	ErrNationalIDRequired = errors.New("国民IDは必須です")
	ErrInvalidNationalID  = errors.New("国民IDは8桁の数字である必要があります")
	ErrNamesRequired      = errors.New("姓と名は必須です")
	ErrInvalidPhone       = errors.New("電話番号は9桁の数字である必要があります")
	ErrNationalIDTaken    = errors.New("同じ国民IDの顧客が既に存在します")
	ErrEmailTaken         = errors.New("同じメールアドレスの顧客が既に存在します")
	ErrUsernameRequired   = errors.New("ユーザー名は必須です")
	ErrPasswordRequired   = errors.New("パスワードは必須です")
	ErrUsernameTaken      = errors.New("ユーザー名は既に使用されています")
)

// ActiveReservationSummary は削除を妨げている予約の概要
type ActiveReservationSummary struct {
	ReservationID int64
	RoomNumber    string
	Status        string
	StartDate     time.Time
	EndDate       time.Time
}

// ActiveReservationsError は未解決（PENDING/ACTIVE）の予約を持つ顧客の
// 削除要求を拒否する状態競合エラー。対象の予約一覧を保持する
type ActiveReservationsError struct {
	CustomerID   int64
	Reservations []ActiveReservationSummary
}

func (e *ActiveReservationsError) Error() string {
	return fmt.Sprintf("顧客（ID: %d）には未解決の予約が%d件あるため削除できません。先にキャンセルまたは完了させてください",
		e.CustomerID, len(e.Reservations))
}
