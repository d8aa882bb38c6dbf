package room

import "time"

// Status は客室の物理状態を表す
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusCleaning    Status = "cleaning"
)

// ValidStatus はステータス値が定義済みかを返す
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusCleaning:
		return true
	}
	return false
}

// Room は客室エンティティを表す
// 物理状態は予約ライフサイクルに連動して更新され、メンテナンス中の客室は
// 新規予約を受け付けない
type Room struct {
	ID        int64
	Number    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRoom は新しい客室を作成する
func NewRoom(number string, status Status) *Room {
	now := time.Now()
	return &Room{
		Number:    number,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は客室の検証を行う
func (r *Room) Validate() error {
	if r.Number == "" {
		return ErrRoomNumberRequired
	}
	if !ValidStatus(r.Status) {
		return ErrInvalidRoomStatus
	}
	return nil
}

// IsOperational は予約を受け付けられる状態かを返す
func (r *Room) IsOperational() bool {
	return r.Status != StatusMaintenance
}
