package application

import (
	"context"
	"errors"
	"time"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/clock"
)

// ErrInvalidPeriod は集計期間の開始が終了より後の場合のエラー
var ErrInvalidPeriod = errors.New("集計期間が不正です（開始日は終了日以前でなければなりません）")

// DailyRevenue は1日あたりの売上
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// DailyOccupancy は1日あたりの稼働室数
type DailyOccupancy struct {
	Date     time.Time `json:"date"`
	Occupied int       `json:"occupied"`
}

// DailyMovement は1日あたりの到着・出発件数
type DailyMovement struct {
	Date      time.Time `json:"date"`
	CheckIns  int       `json:"check_ins"`
	CheckOuts int       `json:"check_outs"`
}

// ReportService は予約データから売上・稼働・入退室の時系列レポートを作る
// すべての日次系列は欠損日をゼロ埋めした密な系列として返す
type ReportService struct {
	reservationRepo reservation.Repository
	clk             clock.Clock
}

// NewReportService は新しいReportServiceを作成する
func NewReportService(rr reservation.Repository, clk clock.Clock) *ReportService {
	return &ReportService{reservationRepo: rr, clk: clk}
}

// TotalRevenue は確定済み売上の総額を返す
// 完了・滞在中の予約に加え、支払い完了済みのPENDING予約も計上する
func (s *ReportService) TotalRevenue(ctx context.Context) (float64, error) {
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range reservations {
		if countsAsRevenue(r) {
			total += r.Total()
		}
	}
	return total, nil
}

// RevenueByDay は期間内の日次売上系列を返す
// 売上は実際のチェックアウト日（未設定なら予約終了日）に全額計上する
// 対象はACTIVEとFINALIZEDの予約のみ
func (s *ReportService) RevenueByDay(ctx context.Context, from, to time.Time) ([]DailyRevenue, error) {
	from, to = clock.Truncate(from), clock.Truncate(to)
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]float64)
	for _, r := range reservations {
		if r.Status != reservation.StatusActive && r.Status != reservation.StatusFinalized {
			continue
		}
		day := clock.Truncate(r.EffectiveEnd())
		byDay[day] += r.Total()
	}

	series := make([]DailyRevenue, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyRevenue{Date: day, Revenue: byDay[day]})
	}
	return series, nil
}

// RevenueLastDays は今日を末日とする直近n日間の日次売上系列を返す
func (s *ReportService) RevenueLastDays(ctx context.Context, days int) ([]DailyRevenue, error) {
	if days < 1 {
		days = 1
	}
	to := s.clk.Today()
	from := to.AddDate(0, 0, -(days - 1))
	return s.RevenueByDay(ctx, from, to)
}

// OccupancyByDay は期間内の日次稼働室数系列を返す
// 各日について、その日を滞在期間に含む（到着日以上・出発日未満の）
// ACTIVE/FINALIZED予約の数を数える
func (s *ReportService) OccupancyByDay(ctx context.Context, from, to time.Time) ([]DailyOccupancy, error) {
	from, to = clock.Truncate(from), clock.Truncate(to)
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	series := make([]DailyOccupancy, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		count := 0
		for _, r := range reservations {
			if r.Status != reservation.StatusActive && r.Status != reservation.StatusFinalized {
				continue
			}
			if r.CoversDay(day) {
				count++
			}
		}
		series = append(series, DailyOccupancy{Date: day, Occupied: count})
	}
	return series, nil
}

// MovementByDay は期間内の日次入退室件数系列を返す
// 到着は予約開始日、出発は予約終了日で数える。ステータスは問わない
func (s *ReportService) MovementByDay(ctx context.Context, from, to time.Time) ([]DailyMovement, error) {
	from, to = clock.Truncate(from), clock.Truncate(to)
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	arrivals := make(map[time.Time]int)
	departures := make(map[time.Time]int)
	for _, r := range reservations {
		arrivals[clock.Truncate(r.StartDate)]++
		departures[clock.Truncate(r.EndDate)]++
	}

	series := make([]DailyMovement, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		series = append(series, DailyMovement{
			Date:      day,
			CheckIns:  arrivals[day],
			CheckOuts: departures[day],
		})
	}
	return series, nil
}

// CountByStatus はステータスごとの予約件数を返す
func (s *ReportService) CountByStatus(ctx context.Context) (map[reservation.Status]int, error) {
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[reservation.Status]int)
	for _, r := range reservations {
		counts[r.Status]++
	}
	return counts, nil
}

// TodayArrivals は今日到着予定の予約一覧を返す（キャンセル済みは除く）
func (s *ReportService) TodayArrivals(ctx context.Context) ([]*reservation.Reservation, error) {
	return s.filterToday(ctx, func(r *reservation.Reservation, today time.Time) bool {
		return clock.Truncate(r.StartDate).Equal(today)
	})
}

// TodayDepartures は今日出発予定の予約一覧を返す（キャンセル済みは除く）
func (s *ReportService) TodayDepartures(ctx context.Context) ([]*reservation.Reservation, error) {
	return s.filterToday(ctx, func(r *reservation.Reservation, today time.Time) bool {
		return clock.Truncate(r.EndDate).Equal(today)
	})
}

// DistinctReservedRooms は未解決（PENDING/ACTIVE）予約が存在する客室数を返す
func (s *ReportService) DistinctReservedRooms(ctx context.Context) (int, error) {
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	rooms := make(map[int64]struct{})
	for _, r := range reservations {
		if r.IsCurrent() {
			rooms[r.RoomID] = struct{}{}
		}
	}
	return len(rooms), nil
}

// ReservationsInPeriod は期間と重なる予約一覧を返す（キャンセル済みは除く）
func (s *ReportService) ReservationsInPeriod(ctx context.Context, from, to time.Time) ([]*reservation.Reservation, error) {
	from, to = clock.Truncate(from), clock.Truncate(to)
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// 期間は両端含む日集合として扱うため、終端は翌日0時の半開区間に直す
	periodEnd := to.AddDate(0, 0, 1)
	matched := make([]*reservation.Reservation, 0)
	for _, r := range reservations {
		if r.Status == reservation.StatusCancelled {
			continue
		}
		if reservation.Overlaps(r.StartDate, r.EffectiveEnd(), from, periodEnd) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *ReportService) filterToday(ctx context.Context, match func(*reservation.Reservation, time.Time) bool) ([]*reservation.Reservation, error) {
	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today := s.clk.Today()
	matched := make([]*reservation.Reservation, 0)
	for _, r := range reservations {
		if r.Status == reservation.StatusCancelled {
			continue
		}
		if match(r, today) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// countsAsRevenue は予約が売上総額に計上されるかを判定する
func countsAsRevenue(r *reservation.Reservation) bool {
	switch r.Status {
	case reservation.StatusFinalized, reservation.StatusActive:
		return true
	case reservation.StatusPending:
		return r.Payment.IsCompleted()
	}
	return false
}
