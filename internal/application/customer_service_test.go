package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/clock"
)

type customerTestDeps struct {
	txManager *MockTxManager
	tx        *MockTx
	custRepo  *MockCustomerRepository
	resRepo   *MockReservationRepository
	roomRepo  *MockRoomRepository
	service   *CustomerService
}

func newCustomerTestDeps() *customerTestDeps {
	txm := new(MockTxManager)
	tx := new(MockTx)
	custRepo := new(MockCustomerRepository)
	resRepo := new(MockReservationRepository)
	roomRepo := new(MockRoomRepository)

	service := NewCustomerService(txm, custRepo, resRepo, roomRepo, nil, nil)

	return &customerTestDeps{
		txManager: txm,
		tx:        tx,
		custRepo:  custRepo,
		resRepo:   resRepo,
		roomRepo:  roomRepo,
		service:   service,
	}
}

func (d *customerTestDeps) expectTx(ctx context.Context) {
	d.txManager.On("Begin", ctx).Return(d.tx, nil)
	d.tx.On("Rollback").Return(nil)
	d.tx.On("Commit").Return(nil)
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("アカウントなしで登録", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByNationalID", ctx, "12345678").Return(nil, customer.ErrCustomerNotFound)
		deps.expectTx(ctx)
		deps.custRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		cust, err := deps.service.CreateCustomer(ctx, CreateCustomerInput{
			NationalID: "12345678",
			FirstName:  "Juan",
			LastName:   "Pérez",
		})

		require.NoError(t, err)
		assert.Nil(t, cust.Account)
		deps.custRepo.AssertExpectations(t)
	})

	t.Run("認証情報を与えるとbcryptハッシュ済みアカウントを作成", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByNationalID", ctx, "12345678").Return(nil, customer.ErrCustomerNotFound)
		deps.custRepo.On("GetByEmail", ctx, "juan@example.com").Return(nil, customer.ErrCustomerNotFound)
		deps.custRepo.On("GetByUsername", ctx, "juanp").Return(nil, customer.ErrCustomerNotFound)
		deps.expectTx(ctx)
		deps.custRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		cust, err := deps.service.CreateCustomer(ctx, CreateCustomerInput{
			NationalID: "12345678",
			FirstName:  "Juan",
			LastName:   "Pérez",
			Email:      "juan@example.com",
			Username:   "juanp",
			Password:   "secreto123",
		})

		require.NoError(t, err)
		require.NotNil(t, cust.Account)
		assert.Equal(t, "juanp", cust.Account.Username)
		assert.Equal(t, customer.RoleCustomer, cust.Account.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(cust.Account.PasswordHash), []byte("secreto123")))
	})

	t.Run("ユーザー名だけではアカウントを作れない", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByNationalID", ctx, "12345678").Return(nil, customer.ErrCustomerNotFound)

		_, err := deps.service.CreateCustomer(ctx, CreateCustomerInput{
			NationalID: "12345678",
			FirstName:  "Juan",
			LastName:   "Pérez",
			Username:   "juanp",
		})

		assert.ErrorIs(t, err, customer.ErrPasswordRequired)
	})

	t.Run("国民IDの重複を拒否", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByNationalID", ctx, "12345678").
			Return(&customer.Customer{ID: 2, NationalID: "12345678"}, nil)

		_, err := deps.service.CreateCustomer(ctx, CreateCustomerInput{
			NationalID: "12345678",
			FirstName:  "Juan",
			LastName:   "Pérez",
		})

		assert.ErrorIs(t, err, customer.ErrNationalIDTaken)
	})

	t.Run("国民IDは8桁の数字", func(t *testing.T) {
		deps := newCustomerTestDeps()

		_, err := deps.service.CreateCustomer(ctx, CreateCustomerInput{
			NationalID: "abc",
			FirstName:  "Juan",
			LastName:   "Pérez",
		})

		assert.ErrorIs(t, err, customer.ErrInvalidNationalID)
	})
}

func TestCustomerService_UpdateCustomer_RequiresID(t *testing.T) {
	deps := newCustomerTestDeps()

	_, err := deps.service.UpdateCustomer(context.Background(), UpdateCustomerInput{
		NationalID: "12345678",
		FirstName:  "Juan",
		LastName:   "Pérez",
	})

	assert.ErrorIs(t, err, customer.ErrCustomerIDRequired)
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("未解決の予約がある場合は一覧付きで拒否", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByID", ctx, int64(7)).
			Return(&customer.Customer{ID: 7, NationalID: "12345678", FirstName: "Juan", LastName: "Pérez"}, nil)
		deps.resRepo.On("GetByCustomerID", ctx, int64(7)).Return([]*reservation.Reservation{
			{ID: 1, CustomerID: 7, RoomID: 3,
				StartDate: clock.Date(2026, 6, 10), EndDate: clock.Date(2026, 6, 15),
				Status: reservation.StatusActive},
			{ID: 2, CustomerID: 7, RoomID: 4,
				StartDate: clock.Date(2026, 5, 1), EndDate: clock.Date(2026, 5, 5),
				Status: reservation.StatusCancelled},
		}, nil)
		deps.roomRepo.On("GetByID", ctx, int64(3)).
			Return(&room.Room{ID: 3, Number: "103"}, nil)

		_, err := deps.service.DeleteCustomer(ctx, 7)

		var active *customer.ActiveReservationsError
		require.ErrorAs(t, err, &active)
		require.Len(t, active.Reservations, 1)
		assert.Equal(t, int64(1), active.Reservations[0].ReservationID)
		assert.Equal(t, "103", active.Reservations[0].RoomNumber)
		deps.txManager.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("FINALIZED履歴がある場合は匿名化", func(t *testing.T) {
		deps := newCustomerTestDeps()
		cust := &customer.Customer{
			ID: 7, NationalID: "12345678",
			FirstName: "Juan", LastName: "Pérez",
			Email: "juan@example.com", Phone: "987654321",
			Account: &customer.Account{ID: 1, Username: "juanp"},
		}
		deps.custRepo.On("GetByID", ctx, int64(7)).Return(cust, nil)
		deps.resRepo.On("GetByCustomerID", ctx, int64(7)).Return([]*reservation.Reservation{
			{ID: 1, CustomerID: 7, RoomID: 3,
				StartDate: clock.Date(2026, 5, 1), EndDate: clock.Date(2026, 5, 5),
				Status: reservation.StatusFinalized},
		}, nil)
		deps.expectTx(ctx)
		deps.custRepo.On("Update", ctx, deps.tx, cust).Return(nil)

		outcome, err := deps.service.DeleteCustomer(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, OutcomeAnonymized, outcome)
		assert.Equal(t, "Cliente", cust.FirstName)
		assert.Equal(t, "Eliminado 7", cust.LastName)
		assert.Equal(t, "90000007", cust.NationalID)
		assert.Equal(t, "deleted_7@system.local", cust.Email)
		assert.Empty(t, cust.Phone)
		assert.Nil(t, cust.Account)
		// 予約行そのものは消さない
		deps.resRepo.AssertNotCalled(t, "DeleteByCustomerID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("キャンセルのみの顧客は物理削除", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByID", ctx, int64(7)).
			Return(&customer.Customer{ID: 7, NationalID: "12345678", FirstName: "Juan", LastName: "Pérez"}, nil)
		deps.resRepo.On("GetByCustomerID", ctx, int64(7)).Return([]*reservation.Reservation{
			{ID: 1, CustomerID: 7, RoomID: 3,
				StartDate: clock.Date(2026, 5, 1), EndDate: clock.Date(2026, 5, 5),
				Status: reservation.StatusCancelled},
		}, nil)
		deps.expectTx(ctx)
		deps.resRepo.On("DeleteByCustomerID", ctx, deps.tx, int64(7)).Return(nil)
		deps.custRepo.On("Delete", ctx, deps.tx, int64(7)).Return(nil)

		outcome, err := deps.service.DeleteCustomer(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, OutcomeErased, outcome)
		deps.custRepo.AssertExpectations(t)
	})

	t.Run("予約のない顧客も物理削除", func(t *testing.T) {
		deps := newCustomerTestDeps()
		deps.custRepo.On("GetByID", ctx, int64(7)).
			Return(&customer.Customer{ID: 7, NationalID: "12345678", FirstName: "Juan", LastName: "Pérez"}, nil)
		deps.resRepo.On("GetByCustomerID", ctx, int64(7)).Return([]*reservation.Reservation{}, nil)
		deps.expectTx(ctx)
		deps.resRepo.On("DeleteByCustomerID", ctx, deps.tx, int64(7)).Return(nil)
		deps.custRepo.On("Delete", ctx, deps.tx, int64(7)).Return(nil)

		outcome, err := deps.service.DeleteCustomer(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, OutcomeErased, outcome)
	})
}

func TestCustomerService_GetCustomer_DerivedFields(t *testing.T) {
	deps := newCustomerTestDeps()
	ctx := context.Background()

	deps.custRepo.On("GetByID", ctx, int64(7)).
		Return(&customer.Customer{ID: 7, NationalID: "12345678", FirstName: "Juan", LastName: "Pérez"}, nil)
	deps.resRepo.On("GetByCustomerID", ctx, int64(7)).Return([]*reservation.Reservation{
		{ID: 1, CustomerID: 7, RoomID: 3,
			StartDate: clock.Date(2026, 3, 1), EndDate: clock.Date(2026, 3, 5),
			Status: reservation.StatusFinalized},
		{ID: 2, CustomerID: 7, RoomID: 3,
			StartDate: clock.Date(2026, 5, 1), EndDate: clock.Date(2026, 5, 8),
			Status: reservation.StatusFinalized},
		{ID: 3, CustomerID: 7, RoomID: 4,
			StartDate: clock.Date(2026, 7, 1), EndDate: clock.Date(2026, 7, 5),
			Status: reservation.StatusActive},
	}, nil)

	cust, err := deps.service.GetCustomer(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(3), cust.TotalReservations)
	assert.True(t, cust.HasActiveReservation)
	require.NotNil(t, cust.ActiveReservationID)
	assert.Equal(t, int64(3), *cust.ActiveReservationID)
	require.NotNil(t, cust.LastStay)
	assert.Equal(t, clock.Date(2026, 5, 8), *cust.LastStay)
}
