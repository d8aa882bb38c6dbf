package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
)

// MockCustomerService はCustomerServiceInterfaceのモック
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, input application.CreateCustomerInput) (*customer.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, input application.UpdateCustomerInput) (*customer.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id int64) (application.DeletionOutcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(application.DeletionOutcome), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, search string, limit, offset int) ([]*customer.Customer, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) CountCustomers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testCustomer() *customer.Customer {
	return &customer.Customer{
		ID: 7, NationalID: "12345678",
		FirstName: "Juan", LastName: "Pérez",
		Email: "juan@example.com", Phone: "987654321",
		Points:    10,
		CreatedAt: time.Now(),
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に顧客を登録できる", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(in application.CreateCustomerInput) bool {
			return in.NationalID == "12345678" && in.Username == "juanp"
		})).Return(testCustomer(), nil)

		handler := NewCustomerHandler(mockService, nil)

		reqBody := `{
			"national_id": "12345678",
			"first_name": "Juan",
			"last_name": "Pérez",
			"email": "juan@example.com",
			"username": "juanp",
			"password": "secret123"
		}`
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "12345678", resp.NationalID)

		mockService.AssertExpectations(t)
	})

	t.Run("国民IDが重複している場合409", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(nil, customer.ErrNationalIDTaken)

		handler := NewCustomerHandler(mockService, nil)

		reqBody := `{"national_id": "12345678", "first_name": "Juan", "last_name": "Pérez"}`
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("氏名の欠落は400", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(mockService, nil)

		reqBody := `{"national_id": "12345678"}`
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})
}

func TestCustomerHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("完了済み滞在がある顧客は匿名化される", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("DeleteCustomer", mock.Anything, int64(7)).
			Return(application.OutcomeAnonymized, nil)

		handler := NewCustomerHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodDelete, "/customers/7", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := handler.Delete(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp DeleteCustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "anonymized", resp.Outcome)
	})

	t.Run("未解決の予約がある場合は対象一覧付きの409", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("DeleteCustomer", mock.Anything, int64(7)).
			Return(application.DeletionOutcome(""), &customer.ActiveReservationsError{
				CustomerID: 7,
				Reservations: []customer.ActiveReservationSummary{
					{ReservationID: 3, RoomNumber: "103", Status: "active"},
				},
			})

		handler := NewCustomerHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodDelete, "/customers/7", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := handler.Delete(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)

		msg, ok := he.Message.(map[string]interface{})
		require.True(t, ok)
		details, ok := msg["details"].([]customer.ActiveReservationSummary)
		require.True(t, ok)
		require.Len(t, details, 1)
		assert.Equal(t, "103", details[0].RoomNumber)
	})

	t.Run("顧客が見つからない場合404", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("DeleteCustomer", mock.Anything, int64(99)).
			Return(application.DeletionOutcome(""), customer.ErrCustomerNotFound)

		handler := NewCustomerHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodDelete, "/customers/99", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := handler.Delete(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestCustomerHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("派生項目を含めて返す", func(t *testing.T) {
		mockService := new(MockCustomerService)
		cust := testCustomer()
		cust.TotalReservations = 3
		cust.HasActiveReservation = true
		activeID := int64(5)
		cust.ActiveReservationID = &activeID
		last := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
		cust.LastStay = &last
		mockService.On("GetCustomer", mock.Anything, int64(7)).Return(cust, nil)

		handler := NewCustomerHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodGet, "/customers/7", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("7")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.TotalReservations)
		assert.True(t, resp.HasActiveReservation)
		require.NotNil(t, resp.LastStay)
		assert.Equal(t, "2026-05-08", *resp.LastStay)
	})

	t.Run("顧客が見つからない場合404", func(t *testing.T) {
		mockService := new(MockCustomerService)
		mockService.On("GetCustomer", mock.Anything, int64(99)).
			Return(nil, customer.ErrCustomerNotFound)

		handler := NewCustomerHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodGet, "/customers/99", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("99")

		err := handler.GetByID(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
