package handler

import (
	"context"
	"time"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/customer"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/reservation"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/service"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, input application.UpdateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*reservation.Reservation, error)
	ListReservations(ctx context.Context, limit, offset int) ([]*reservation.Reservation, error)
	GetCustomerReservations(ctx context.Context, customerID int64) ([]*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id int64, staff bool) (*reservation.Reservation, error)
	CheckIn(ctx context.Context, id int64, when *time.Time) (*reservation.Reservation, error)
	CheckOut(ctx context.Context, id int64, when *time.Time) (*reservation.Reservation, error)
	FinalizeReservation(ctx context.Context, id int64) (*reservation.Reservation, error)
	HardDeleteReservation(ctx context.Context, id int64) (bool, error)
	AssignServices(ctx context.Context, reservationID int64, serviceIDs []int64) error
}

// CustomerServiceInterface は顧客サービスのインターフェース
type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, input application.CreateCustomerInput) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, input application.UpdateCustomerInput) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) (application.DeletionOutcome, error)
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	ListCustomers(ctx context.Context, search string, limit, offset int) ([]*customer.Customer, error)
	CountCustomers(ctx context.Context) (int64, error)
}

// RoomServiceInterface は客室サービスのインターフェース
type RoomServiceInterface interface {
	CreateRoom(ctx context.Context, number string, status room.Status) (*room.Room, error)
	UpdateRoomStatus(ctx context.Context, id int64, status room.Status) (*room.Room, error)
	GetRoom(ctx context.Context, id int64) (*room.Room, error)
	ListRooms(ctx context.Context) ([]*room.Room, error)
}

// ReportServiceInterface はレポートサービスのインターフェース
type ReportServiceInterface interface {
	TotalRevenue(ctx context.Context) (float64, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]application.DailyRevenue, error)
	RevenueLastDays(ctx context.Context, days int) ([]application.DailyRevenue, error)
	OccupancyByDay(ctx context.Context, from, to time.Time) ([]application.DailyOccupancy, error)
	MovementByDay(ctx context.Context, from, to time.Time) ([]application.DailyMovement, error)
	CountByStatus(ctx context.Context) (map[reservation.Status]int, error)
	TodayArrivals(ctx context.Context) ([]*reservation.Reservation, error)
	TodayDepartures(ctx context.Context) ([]*reservation.Reservation, error)
	DistinctReservedRooms(ctx context.Context) (int, error)
	ReservationsInPeriod(ctx context.Context, from, to time.Time) ([]*reservation.Reservation, error)
}

// CatalogServiceInterface は追加サービス台帳のインターフェース
type CatalogServiceInterface interface {
	CreateService(ctx context.Context, name string, price float64) (*service.Service, error)
	GetService(ctx context.Context, id int64) (*service.Service, error)
	ListServices(ctx context.Context) ([]*service.Service, error)
}
