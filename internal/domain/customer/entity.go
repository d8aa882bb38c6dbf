package customer

import (
	"fmt"
	"regexp"
	"time"
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{8}$`)
	phonePattern      = regexp.MustCompile(`^\d{9}$`)
)

// Account は顧客に紐づくログインアカウントを表す
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

// RoleCustomer は顧客アカウントの既定ロール
const RoleCustomer = "ROLE_CLIENTE"

// Customer は顧客エンティティを表す
// TotalReservations以下の派生フィールドは永続化されず、参照のたびに
// 予約集合から再計算される読み取り専用ビュー
type Customer struct {
	ID          int64
	NationalID  string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Nationality string
	Points      int
	Account     *Account
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// 派生フィールド（読み取り時に再計算）
	TotalReservations    int64
	HasActiveReservation bool
	ActiveReservationID  *int64
	LastStay             *time.Time
}

// Validate は顧客の検証を行う
func (c *Customer) Validate() error {
	if c.NationalID == "" {
		return ErrNationalIDRequired
	}
	if !nationalIDPattern.MatchString(c.NationalID) {
		return ErrInvalidNationalID
	}
	if c.FirstName == "" || c.LastName == "" {
		return ErrNamesRequired
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// AddPoints はロイヤリティポイントを加算する
func (c *Customer) AddPoints(points int) {
	c.Points += points
}

// Anonymize は個人識別情報を合成プレースホルダーで上書きする
// 予約・売上履歴を保持したまま本人特定情報を消去し、元の国民IDと
// メールアドレスを再利用可能にする。アカウントへの参照も切り離す
func (c *Customer) Anonymize() {
	c.FirstName = "Cliente"
	c.LastName = fmt.Sprintf("Eliminado %d", c.ID)
	// 内部IDから衝突しないダミー国民IDを生成：9 + ID（7桁ゼロ詰め）
	c.NationalID = fmt.Sprintf("9%07d", c.ID%10000000)
	c.Email = fmt.Sprintf("deleted_%d@system.local", c.ID)
	c.Phone = ""
	c.Account = nil
	c.UpdatedAt = time.Now()
}
