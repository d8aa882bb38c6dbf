package room

import "errors"

// Room ドメインのエラー定義
var (
	ErrRoomNotFound         = errors.New("選択された客室は存在しません")
	ErrRoomNumberRequired   = errors.New("客室番号は必須です")
	ErrRoomNumberTaken      = errors.New("同じ番号の客室が既に存在します")
	ErrInvalidRoomStatus    = errors.New("客室ステータスが不正です")
	ErrRoomUnderMaintenance = errors.New("選択された客室はメンテナンス中です")
)
