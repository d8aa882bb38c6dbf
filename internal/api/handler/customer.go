package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
)

type CustomerHandler struct {
	service            CustomerServiceInterface
	reservationService ReservationServiceInterface
}

func NewCustomerHandler(s CustomerServiceInterface, rs ReservationServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: s, reservationService: rs}
}

type CreateCustomerRequest struct {
	NationalID  string `json:"national_id" validate:"required" example:"12345678"`
	FirstName   string `json:"first_name" validate:"required" example:"Juan"`
	LastName    string `json:"last_name" validate:"required" example:"Pérez"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

type UpdateCustomerRequest struct {
	NationalID  string `json:"national_id" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
}

type CustomerResponse struct {
	ID                   int64      `json:"id"`
	NationalID           string     `json:"national_id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	Nationality          string     `json:"nationality,omitempty"`
	Points               int        `json:"points"`
	Username             string     `json:"username,omitempty"`
	TotalReservations    int64      `json:"total_reservations"`
	HasActiveReservation bool       `json:"has_active_reservation"`
	ActiveReservationID  *int64     `json:"active_reservation_id,omitempty"`
	LastStay             *string    `json:"last_stay,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type DeleteCustomerResponse struct {
	Outcome string `json:"outcome"`
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID: c.ID, NationalID: c.NationalID,
		FirstName: c.FirstName, LastName: c.LastName,
		Email: c.Email, Phone: c.Phone, Nationality: c.Nationality,
		Points:               c.Points,
		TotalReservations:    c.TotalReservations,
		HasActiveReservation: c.HasActiveReservation,
		ActiveReservationID:  c.ActiveReservationID,
		CreatedAt:            c.CreatedAt,
	}
	if c.Account != nil {
		resp.Username = c.Account.Username
	}
	if c.LastStay != nil {
		s := c.LastStay.Format(dateLayout)
		resp.LastStay = &s
	}
	return resp
}

// Create godoc
// @Summary 顧客を登録
// @Description 認証情報を指定するとログインアカウントも作成されます
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CreateCustomerRequest true "顧客情報"
// @Success 201 {object} CustomerResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "国民ID・メール・ユーザー名の重複"
// @Router /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cust, err := h.service.CreateCustomer(c.Request().Context(), application.CreateCustomerInput{
		NationalID: req.NationalID, FirstName: req.FirstName, LastName: req.LastName,
		Email: req.Email, Phone: req.Phone, Nationality: req.Nationality,
		Username: req.Username, Password: req.Password,
	})
	if err != nil {
		return mapCustomerError(err)
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(cust))
}

// Update godoc
// @Summary 顧客情報を更新
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "顧客ID"
// @Param request body UpdateCustomerRequest true "顧客情報"
// @Success 200 {object} CustomerResponse
// @Failure 404 {object} map[string]string
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cust, err := h.service.UpdateCustomer(c.Request().Context(), application.UpdateCustomerInput{
		ID: id, NationalID: req.NationalID, FirstName: req.FirstName, LastName: req.LastName,
		Email: req.Email, Phone: req.Phone, Nationality: req.Nationality,
	})
	if err != nil {
		return mapCustomerError(err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cust))
}

// Delete godoc
// @Summary 顧客を削除
// @Description 完了済み滞在があれば匿名化、なければ物理削除します。
// @Description 未解決の予約がある場合は対象一覧付きの409を返します
// @Tags customers
// @Produce json
// @Param id path int true "顧客ID"
// @Success 200 {object} DeleteCustomerResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]interface{} "未解決の予約あり"
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	outcome, err := h.service.DeleteCustomer(c.Request().Context(), id)
	if err != nil {
		var active *customer.ActiveReservationsError
		if errors.As(err, &active) {
			return echo.NewHTTPError(http.StatusConflict, map[string]interface{}{
				"error":   active.Error(),
				"details": active.Reservations,
			})
		}
		return mapCustomerError(err)
	}
	return c.JSON(http.StatusOK, DeleteCustomerResponse{Outcome: string(outcome)})
}

// GetByID godoc
// @Summary 顧客を取得
// @Description 予約総数・進行中予約・最終滞在日を含めて返します
// @Tags customers
// @Produce json
// @Param id path int true "顧客ID"
// @Success 200 {object} CustomerResponse
// @Failure 404 {object} map[string]string
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	cust, err := h.service.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return mapCustomerError(err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cust))
}

// List godoc
// @Summary 顧客一覧を取得
// @Tags customers
// @Produce json
// @Param search query string false "国民ID・氏名の部分一致"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} CustomerResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	limit, offset := parsePaging(c)
	customers, err := h.service.ListCustomers(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = toCustomerResponse(cust)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetReservations godoc
// @Summary 顧客の予約一覧を取得
// @Tags customers
// @Produce json
// @Param id path int true "顧客ID"
// @Success 200 {array} ReservationResponse
// @Router /customers/{id}/reservations [get]
func (h *CustomerHandler) GetReservations(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	reservations, err := h.reservationService.GetCustomerReservations(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// mapCustomerError は顧客ドメインエラーをHTTPステータスに変換する
func mapCustomerError(err error) error {
	switch {
	case errors.Is(err, customer.ErrCustomerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, customer.ErrNationalIDTaken),
		errors.Is(err, customer.ErrEmailTaken),
		errors.Is(err, customer.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
