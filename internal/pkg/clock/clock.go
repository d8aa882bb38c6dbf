package clock

import "time"

// Clock は現在時刻の供給源を表す
// 「今日」に依存するロジック（客室状態同期・チェックイン/アウトの既定日付・
// 日次レポート）をテストで決定的に動かすための抽象化
type Clock interface {
	// Now は現在時刻を返す
	Now() time.Time
	// Today は現在日付（UTC、時刻切り捨て）を返す
	Today() time.Time
}

// System はシステム時計を使用するClock実装
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

func (System) Today() time.Time {
	return Truncate(time.Now())
}

// Fixed はテスト用の固定時計
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

func (f Fixed) Today() time.Time {
	return Truncate(f.T)
}

// Truncate は時刻を切り捨ててUTCの日付にする
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date はUTC日付を生成するヘルパー
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
