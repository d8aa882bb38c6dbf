package service

import "errors"

// Service ドメインのエラー定義
var (
	ErrServiceNotFound     = errors.New("サービスが見つかりません")
	ErrServiceNameRequired = errors.New("サービス名は必須です")
	ErrInvalidServicePrice = errors.New("サービス価格は0以上である必要があります")
)
