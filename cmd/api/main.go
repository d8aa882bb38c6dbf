package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/api"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/api/handler"
	apimiddleware "github.com/JeanPieerT/Hotel-Herramientas/internal/api/middleware"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/application"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/config"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/infrastructure/email"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/infrastructure/postgres"
	redisinfra "github.com/JeanPieerT/Hotel-Herramientas/internal/infrastructure/redis"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/clock"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/metrics"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	// DB接続とマイグレーション
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}

	// メトリクス
	m := metrics.Init()

	// リポジトリ
	reservationRepo := postgres.NewReservationRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	txManager := postgres.NewTxManager(db)

	// コミット後の副作用ディスパッチャー
	// メール設定が未指定の場合はメール送信を行わない
	var emailSink effect.EmailSink
	if cfg.Mail.Enabled() {
		emailSink = email.NewMailjetSender(&cfg.Mail)
	}
	effects := effect.NewRunner(notificationRepo, emailSink, auditRepo, m)

	// サービス
	lockManager := redisinfra.NewLockManager(redisClient)
	roomCache := redisinfra.NewRoomCache(redisClient)
	clk := clock.System{}

	reservationService := application.NewReservationService(
		txManager, reservationRepo, roomRepo, customerRepo, serviceRepo,
		lockManager, roomCache, clk, effects, m)
	customerService := application.NewCustomerService(
		txManager, customerRepo, reservationRepo, roomRepo, effects, m)
	roomService := application.NewRoomService(txManager, roomRepo, roomCache, effects)
	reportService := application.NewReportService(reservationRepo, clk)
	catalogService := application.NewCatalogService(serviceRepo)

	// ハンドラー
	reservationHandler := handler.NewReservationHandler(reservationService)
	customerHandler := handler.NewCustomerHandler(customerService, reservationService)
	roomHandler := handler.NewRoomHandler(roomService)
	reportHandler := handler.NewReportHandler(reportService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.List)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.PUT("/reservations/:id", reservationHandler.Update)
	v1.DELETE("/reservations/:id", reservationHandler.Delete)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)
	v1.POST("/reservations/:id/checkin", reservationHandler.CheckIn)
	v1.POST("/reservations/:id/checkout", reservationHandler.CheckOut)
	v1.POST("/reservations/:id/finalize", reservationHandler.Finalize)
	v1.PUT("/reservations/:id/services", reservationHandler.AssignServices)

	v1.POST("/customers", customerHandler.Create)
	v1.GET("/customers", customerHandler.List)
	v1.GET("/customers/:id", customerHandler.GetByID)
	v1.PUT("/customers/:id", customerHandler.Update)
	v1.DELETE("/customers/:id", customerHandler.Delete)
	v1.GET("/customers/:id/reservations", customerHandler.GetReservations)

	v1.POST("/rooms", roomHandler.Create)
	v1.GET("/rooms", roomHandler.List)
	v1.GET("/rooms/:id", roomHandler.GetByID)
	v1.PUT("/rooms/:id/status", roomHandler.UpdateStatus)

	v1.POST("/services", catalogHandler.Create)
	v1.GET("/services", catalogHandler.List)
	v1.GET("/services/:id", catalogHandler.GetByID)

	v1.GET("/reports/revenue/total", reportHandler.TotalRevenue)
	v1.GET("/reports/revenue/daily", reportHandler.RevenueByDay)
	v1.GET("/reports/revenue/recent", reportHandler.RevenueLastDays)
	v1.GET("/reports/occupancy/daily", reportHandler.OccupancyByDay)
	v1.GET("/reports/movement/daily", reportHandler.MovementByDay)
	v1.GET("/reports/summary", reportHandler.Summary)
	v1.GET("/reports/reservations", reportHandler.ReservationsInPeriod)

	// 滞在期限切れ予約の自動完了ワーカー
	finalizer := worker.NewOverdueStayFinalizer(reservationService, cfg.Worker.FinalizeInterval)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go finalizer.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	finalizer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
