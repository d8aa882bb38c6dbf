package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
)

type ReportHandler struct {
	service ReportServiceInterface
}

func NewReportHandler(s ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

// TotalRevenue godoc
// @Summary 売上総額を取得
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /reports/revenue/total [get]
func (h *ReportHandler) TotalRevenue(c echo.Context) error {
	total, err := h.service.TotalRevenue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]float64{"total": total})
}

// RevenueByDay godoc
// @Summary 日次売上系列を取得
// @Description 欠損日はゼロ埋めされた密な系列を返します
// @Tags reports
// @Produce json
// @Param from query string true "開始日（YYYY-MM-DD）"
// @Param to query string true "終了日（YYYY-MM-DD）"
// @Success 200 {array} application.DailyRevenue
// @Failure 400 {object} map[string]string
// @Router /reports/revenue/daily [get]
func (h *ReportHandler) RevenueByDay(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	series, err := h.service.RevenueByDay(c.Request().Context(), from, to)
	if err != nil {
		return mapReportError(err)
	}
	return c.JSON(http.StatusOK, series)
}

// RevenueLastDays godoc
// @Summary 直近n日間の日次売上系列を取得
// @Tags reports
// @Produce json
// @Param days query int false "日数" default(7)
// @Success 200 {array} application.DailyRevenue
// @Router /reports/revenue/recent [get]
func (h *ReportHandler) RevenueLastDays(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		days = 7
	}
	series, err := h.service.RevenueLastDays(c.Request().Context(), days)
	if err != nil {
		return mapReportError(err)
	}
	return c.JSON(http.StatusOK, series)
}

// OccupancyByDay godoc
// @Summary 日次稼働室数系列を取得
// @Tags reports
// @Produce json
// @Param from query string true "開始日（YYYY-MM-DD）"
// @Param to query string true "終了日（YYYY-MM-DD）"
// @Success 200 {array} application.DailyOccupancy
// @Router /reports/occupancy/daily [get]
func (h *ReportHandler) OccupancyByDay(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	series, err := h.service.OccupancyByDay(c.Request().Context(), from, to)
	if err != nil {
		return mapReportError(err)
	}
	return c.JSON(http.StatusOK, series)
}

// MovementByDay godoc
// @Summary 日次入退室件数系列を取得
// @Tags reports
// @Produce json
// @Param from query string true "開始日（YYYY-MM-DD）"
// @Param to query string true "終了日（YYYY-MM-DD）"
// @Success 200 {array} application.DailyMovement
// @Router /reports/movement/daily [get]
func (h *ReportHandler) MovementByDay(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	series, err := h.service.MovementByDay(c.Request().Context(), from, to)
	if err != nil {
		return mapReportError(err)
	}
	return c.JSON(http.StatusOK, series)
}

// Summary godoc
// @Summary ダッシュボード用サマリーを取得
// @Description ステータス別件数・本日の到着/出発・予約中の客室数をまとめて返します
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.service.CountByStatus(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	arrivals, err := h.service.TodayArrivals(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	departures, err := h.service.TodayDepartures(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	reservedRooms, err := h.service.DistinctReservedRooms(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	arrivalResp := make([]ReservationResponse, len(arrivals))
	for i, r := range arrivals {
		arrivalResp[i] = toReservationResponse(r)
	}
	departureResp := make([]ReservationResponse, len(departures))
	for i, r := range departures {
		departureResp[i] = toReservationResponse(r)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"counts_by_status": counts,
		"today_arrivals":   arrivalResp,
		"today_departures": departureResp,
		"reserved_rooms":   reservedRooms,
	})
}

// ReservationsInPeriod godoc
// @Summary 期間内の予約一覧を取得
// @Tags reports
// @Produce json
// @Param from query string true "開始日（YYYY-MM-DD）"
// @Param to query string true "終了日（YYYY-MM-DD）"
// @Success 200 {array} ReservationResponse
// @Router /reports/reservations [get]
func (h *ReportHandler) ReservationsInPeriod(c echo.Context) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}
	reservations, err := h.service.ReservationsInPeriod(c.Request().Context(), from, to)
	if err != nil {
		return mapReportError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// parsePeriod はfrom/toクエリパラメータを解析する
func parsePeriod(c echo.Context) (time.Time, time.Time, error) {
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// mapReportError はレポートエラーをHTTPステータスに変換する
func mapReportError(err error) error {
	if errors.Is(err, application.ErrInvalidPeriod) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
