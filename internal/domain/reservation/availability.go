package reservation

import "time"

// Overlaps は半開区間 [aStart, aEnd) と [bStart, bEnd) の重なりを判定する
// 端点が接するだけの場合は競合しない
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckAvailability は候補期間 [start, end) が既存予約と競合しないか判定する
// excludeIDには更新時に自分自身の予約IDを渡す（新規作成時は0）
//
// 既存予約の終了日は実効終了日を用いる：FINALIZEDで実際のチェックアウト日が
// あればその日（早期退出は元の予約終了日より前に日を解放する）、なければ
// 予約上の終了日。キャンセル済み予約は比較対象から除外する
// 競合があれば利用不可の範囲を含む*ConflictErrorを返す
func CheckAvailability(existing []*Reservation, start, end time.Time, excludeID int64) error {
	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if r.Status == StatusCancelled {
			continue
		}
		effectiveEnd := r.EffectiveEnd()
		if Overlaps(start, end, r.StartDate, effectiveEnd) {
			return &ConflictError{
				RoomID:        r.RoomID,
				ReservationID: r.ID,
				Start:         r.StartDate,
				End:           effectiveEnd,
			}
		}
	}
	return nil
}
