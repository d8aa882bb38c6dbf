package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
)

type RoomHandler struct {
	service RoomServiceInterface
}

func NewRoomHandler(s RoomServiceInterface) *RoomHandler {
	return &RoomHandler{service: s}
}

type CreateRoomRequest struct {
	Number string `json:"number" validate:"required" example:"101"`
	Status string `json:"status" example:"available"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required" example:"maintenance"`
}

type RoomResponse struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{ID: r.ID, Number: r.Number, Status: string(r.Status), CreatedAt: r.CreatedAt}
}

// Create godoc
// @Summary 客室を登録
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "客室情報"
// @Success 201 {object} RoomResponse
// @Failure 409 {object} map[string]string "客室番号の重複"
// @Router /rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rm, err := h.service.CreateRoom(c.Request().Context(), req.Number, room.Status(req.Status))
	if err != nil {
		return mapRoomError(err)
	}
	return c.JSON(http.StatusCreated, toRoomResponse(rm))
}

// UpdateStatus godoc
// @Summary 客室ステータスを変更
// @Description 清掃・メンテナンス等の運用ステータスを手動で設定します
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path int true "客室ID"
// @Param request body UpdateRoomStatusRequest true "新しいステータス"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/status [put]
func (h *RoomHandler) UpdateStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateRoomStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rm, err := h.service.UpdateRoomStatus(c.Request().Context(), id, room.Status(req.Status))
	if err != nil {
		return mapRoomError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// GetByID godoc
// @Summary 客室を取得
// @Tags rooms
// @Produce json
// @Param id path int true "客室ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	rm, err := h.service.GetRoom(c.Request().Context(), id)
	if err != nil {
		return mapRoomError(err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// List godoc
// @Summary 客室一覧を取得
// @Tags rooms
// @Produce json
// @Success 200 {array} RoomResponse
// @Router /rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		resp[i] = toRoomResponse(rm)
	}
	return c.JSON(http.StatusOK, resp)
}

// mapRoomError は客室ドメインエラーをHTTPステータスに変換する
func mapRoomError(err error) error {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, room.ErrRoomNumberTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
