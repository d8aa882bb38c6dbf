package transaction

import "context"

// Tx は永続化ストアのトランザクションを表すインターフェース
// ライフサイクル操作（予約の保存・客室状態の同期・顧客の匿名化）を
// 1つの原子的な単位として実行するための抽象化で、ドメイン層が
// インフラ層（sqlx等）へ依存しないようにする
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}
