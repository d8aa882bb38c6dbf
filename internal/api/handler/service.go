package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
)

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(s CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type CreateServiceRequest struct {
	Name  string  `json:"name" validate:"required" example:"朝食"`
	Price float64 `json:"price" validate:"gte=0" example:"15.00"`
}

// Create godoc
// @Summary 追加サービスを登録
// @Tags services
// @Accept json
// @Produce json
// @Param request body CreateServiceRequest true "サービス情報"
// @Success 201 {object} ServiceResponse
// @Router /services [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	svc, err := h.service.CreateService(c.Request().Context(), req.Name, req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ServiceResponse{ID: svc.ID, Name: svc.Name, Price: svc.Price})
}

// GetByID godoc
// @Summary 追加サービスを取得
// @Tags services
// @Produce json
// @Param id path int true "サービスID"
// @Success 200 {object} ServiceResponse
// @Failure 404 {object} map[string]string
// @Router /services/{id} [get]
func (h *CatalogHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.service.GetService(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ServiceResponse{ID: svc.ID, Name: svc.Name, Price: svc.Price})
}

// List godoc
// @Summary 追加サービス一覧を取得
// @Tags services
// @Produce json
// @Success 200 {array} ServiceResponse
// @Router /services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	services, err := h.service.ListServices(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ServiceResponse, len(services))
	for i, svc := range services {
		resp[i] = ServiceResponse{ID: svc.ID, Name: svc.Name, Price: svc.Price}
	}
	return c.JSON(http.StatusOK, resp)
}
