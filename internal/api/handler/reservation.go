package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required" example:"1"`
	RoomID     int64   `json:"room_id" validate:"required" example:"3"`
	StartDate  string  `json:"start_date" validate:"required" example:"2025-06-01"`
	EndDate    string  `json:"end_date" validate:"required" example:"2025-06-05"`
	BaseAmount float64 `json:"base_amount" validate:"gte=0" example:"400.00"`
	Discount   float64 `json:"discount" validate:"gte=0" example:"0"`
	Status     string  `json:"status" example:"pending"`
}

type UpdateReservationRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required"`
	RoomID     int64   `json:"room_id" validate:"required"`
	StartDate  string  `json:"start_date" validate:"required"`
	EndDate    string  `json:"end_date" validate:"required"`
	BaseAmount float64 `json:"base_amount" validate:"gte=0"`
	Discount   float64 `json:"discount" validate:"gte=0"`
	Status     string  `json:"status"`
}

type StayDateRequest struct {
	Date string `json:"date" example:"2025-06-01"`
}

type AssignServicesRequest struct {
	ServiceIDs []int64 `json:"service_ids" validate:"required"`
}

type ServiceResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ReservationResponse struct {
	ID             int64             `json:"id"`
	CustomerID     int64             `json:"customer_id"`
	RoomID         int64             `json:"room_id"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Status         string            `json:"status"`
	ActualCheckIn  *string           `json:"actual_check_in,omitempty"`
	ActualCheckOut *string           `json:"actual_check_out,omitempty"`
	BaseAmount     float64           `json:"base_amount"`
	Discount       float64           `json:"discount"`
	Total          float64           `json:"total"`
	Services       []ServiceResponse `json:"services"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID: r.ID, CustomerID: r.CustomerID, RoomID: r.RoomID,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Status:    string(r.Status),
		BaseAmount: r.BaseAmount, Discount: r.Discount,
		Total:     r.Total(),
		Services:  make([]ServiceResponse, len(r.Services)),
		CreatedAt: r.CreatedAt,
	}
	if r.ActualCheckIn != nil {
		s := r.ActualCheckIn.Format(dateLayout)
		resp.ActualCheckIn = &s
	}
	if r.ActualCheckOut != nil {
		s := r.ActualCheckOut.Format(dateLayout)
		resp.ActualCheckOut = &s
	}
	for i, svc := range r.Services {
		resp.Services[i] = ServiceResponse{ID: svc.ID, Name: svc.Name, Price: svc.Price}
	}
	return resp
}

// Create godoc
// @Summary 予約を作成
// @Description 空室チェックに合格した場合のみ予約を作成します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存予約と重複"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		CustomerID: req.CustomerID, RoomID: req.RoomID,
		StartDate: start, EndDate: end,
		BaseAmount: req.BaseAmount, Discount: req.Discount,
		Status: reservation.Status(req.Status),
	})
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// Update godoc
// @Summary 予約を更新
// @Description 終端状態でない予約の内容を更新します
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "予約ID"
// @Param request body UpdateReservationRequest true "予約情報"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	r, err := h.service.UpdateReservation(c.Request().Context(), application.UpdateReservationInput{
		ID: id, CustomerID: req.CustomerID, RoomID: req.RoomID,
		StartDate: start, EndDate: end,
		BaseAmount: req.BaseAmount, Discount: req.Discount,
		Status: reservation.Status(req.Status),
	})
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	r, err := h.service.GetReservation(c.Request().Context(), id)
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// List godoc
// @Summary 予約一覧を取得
// @Tags reservations
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	limit, offset := parsePaging(c)
	reservations, err := h.service.ListReservations(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルし、客室を解放します
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "支払い済み・終端状態"
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	staff := c.Request().Header.Get("X-Staff") == "true"
	r, err := h.service.CancelReservation(c.Request().Context(), id, staff)
	if err != nil {
		return mapReservationError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// CheckIn godoc
// @Summary チェックイン
// @Description 予約をACTIVEにし、客室をOCCUPIEDにします
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "予約ID"
// @Param request body StayDateRequest false "チェックイン日（省略時は今日）"
// @Success 200 {object} ReservationResponse
// @Success 204 "対象の予約なし"
// @Router /reservations/{id}/checkin [post]
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.stayTransition(c, h.service.CheckIn)
}

// CheckOut godoc
// @Summary チェックアウト
// @Description 予約をFINALIZEDにし、客室を解放します
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "予約ID"
// @Param request body StayDateRequest false "チェックアウト日（省略時は今日）"
// @Success 200 {object} ReservationResponse
// @Success 204 "対象の予約なし"
// @Router /reservations/{id}/checkout [post]
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.stayTransition(c, h.service.CheckOut)
}

// Finalize godoc
// @Summary 予約を完了
// @Description 予約をFINALIZEDにします（冪等）
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationResponse
// @Success 204 "対象の予約なし"
// @Router /reservations/{id}/finalize [post]
func (h *ReservationHandler) Finalize(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	r, err := h.service.FinalizeReservation(c.Request().Context(), id)
	if err != nil {
		return mapReservationError(err)
	}
	if r == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Delete godoc
// @Summary 予約を物理削除
// @Tags reservations
// @Param id path int true "予約ID"
// @Success 204 "削除完了"
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.service.HardDeleteReservation(c.Request().Context(), id); err != nil {
		return mapReservationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignServices godoc
// @Summary 予約の付随サービスを設定
// @Description 指定サービス集合で置き換えます。存在しないサービスIDは無視されます
// @Tags reservations
// @Accept json
// @Param id path int true "予約ID"
// @Param request body AssignServicesRequest true "サービスID一覧"
// @Success 204 "設定完了"
// @Router /reservations/{id}/services [put]
func (h *ReservationHandler) AssignServices(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req AssignServicesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := h.service.AssignServices(c.Request().Context(), id, req.ServiceIDs); err != nil {
		return mapReservationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// stayTransition はチェックイン/チェックアウトの共通処理
// 任意の日付をボディで受け取り、対象が存在しない場合は204を返す
func (h *ReservationHandler) stayTransition(c echo.Context, op func(ctx context.Context, id int64, when *time.Time) (*reservation.Reservation, error)) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req StayDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	when, err := parseOptionalDate(req.Date)
	if err != nil {
		return err
	}
	r, err := op(c.Request().Context(), id, when)
	if err != nil {
		return mapReservationError(err)
	}
	if r == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// mapReservationError はドメインエラーをHTTPステータスに変換する
func mapReservationError(err error) error {
	var conflict *reservation.ConflictError
	if errors.As(err, &conflict) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, room.ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrReservationTerminal),
		errors.Is(err, reservation.ErrReservationAlreadyCancelled),
		errors.Is(err, reservation.ErrReservationAlreadyFinalized),
		errors.Is(err, reservation.ErrCancelFinalized),
		errors.Is(err, reservation.ErrPaidCancellation),
		errors.Is(err, room.ErrRoomUnderMaintenance):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
