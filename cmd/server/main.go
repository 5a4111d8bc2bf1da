package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shaderlpay/backend/internal/config"
	"github.com/shaderlpay/backend/internal/handler"
	"github.com/shaderlpay/backend/internal/logging"
	"github.com/shaderlpay/backend/internal/repository"
	"github.com/shaderlpay/backend/internal/service"
	"github.com/shaderlpay/backend/internal/storage"
	"github.com/shaderlpay/backend/pkg/auth"
	"github.com/shaderlpay/backend/pkg/rabbitmq"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	eventRepo := repository.NewPgEventRepository(pool)
	paymentRepo := repository.NewPgPaymentRepository(pool)
	receiptRepo := repository.NewPgReceiptRepository(pool)
	schoolRepo := repository.NewPgSchoolRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)

	// RabbitMQ is optional: without a broker, payment status events are
	// simply not broadcast.
	var publisher service.PaymentEventPublisher
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewProducer(cfg.RabbitMQURL, cfg.PaymentEventExchange)
		if err != nil {
			logging.Fatal("rabbitmq connect failed", "error", err)
		}
		defer producer.Close()
		publisher = rabbitmq.NewPaymentEvents(producer)
	}

	eventService := service.NewEventService(eventRepo)
	paymentService := service.NewPaymentService(eventRepo, paymentRepo, publisher)
	receiptService := service.NewReceiptService(paymentRepo, eventRepo, receiptRepo, cfg.BaseURL)
	dashboardService := service.NewDashboardService(eventRepo, paymentRepo, receiptRepo)
	schoolService := service.NewSchoolService(schoolRepo)
	adminUserService := service.NewAdminUserService(userRepo, eventRepo)

	var store storage.Storage
	if cfg.CloudinaryURL != "" {
		store, err = storage.NewCloudinaryStorage(cfg.CloudinaryURL, "shaderlpay")
		if err != nil {
			logging.Fatal("cloudinary setup failed", "error", err)
		}
	} else {
		store = storage.NewLocalStorage(cfg.UploadDir, "/uploads")
	}

	authWrap := auth.DevAuth
	if cfg.AuthRequired {
		authWrap = auth.RequireAuth(auth.SecretBytes(cfg.AuthSecret))
	}

	router := handler.NewRouter(handler.Handlers{
		Health:    handler.NewHealthHandler(pool),
		Event:     handler.NewEventHandler(eventService),
		Payment:   handler.NewPaymentHandler(paymentService, cfg.GatewayWebhookKey),
		Receipt:   handler.NewReceiptHandler(receiptService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		School:    handler.NewSchoolHandler(schoolService),
		AdminUser: handler.NewAdminUserHandler(adminUserService),
		Upload:    handler.NewUploadHandler(store),
	}, cfg.FrontendURL, authWrap)

	// Deadline sweep: approved events past their deadline get locked.
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.LockExpiredCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := eventRepo.LockExpired(ctx, time.Now())
		if err != nil {
			slog.Error("deadline sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("locked expired events", "count", n)
		}
	}); err != nil {
		logging.Fatal("invalid cron expression", "cron", cfg.LockExpiredCron, "error", err)
	}
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
