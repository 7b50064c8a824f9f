package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/config"
	"github.com/lunapos/checkout-service/internal/auth"
	"github.com/lunapos/checkout-service/internal/broker"
	"github.com/lunapos/checkout-service/internal/cache"
	"github.com/lunapos/checkout-service/internal/database"
	"github.com/lunapos/checkout-service/internal/logger"
	"github.com/lunapos/checkout-service/internal/metrics"

	checkoutH "github.com/lunapos/checkout-service/internal/checkout/handler"
	checkoutRepoPkg "github.com/lunapos/checkout-service/internal/checkout/repository"
	checkoutUCPkg "github.com/lunapos/checkout-service/internal/checkout/usecase"

	stockH "github.com/lunapos/checkout-service/internal/stock/handler"
	stockListenerPkg "github.com/lunapos/checkout-service/internal/stock/listener"
	stockRepoPkg "github.com/lunapos/checkout-service/internal/stock/repository"
	stockUCPkg "github.com/lunapos/checkout-service/internal/stock/usecase"

	creditH "github.com/lunapos/checkout-service/internal/credit/handler"
	creditRepoPkg "github.com/lunapos/checkout-service/internal/credit/repository"
	creditUCPkg "github.com/lunapos/checkout-service/internal/credit/usecase"

	saleH "github.com/lunapos/checkout-service/internal/sale/handler"
	saleRepoPkg "github.com/lunapos/checkout-service/internal/sale/repository"
	saleUCPkg "github.com/lunapos/checkout-service/internal/sale/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer func() { _ = appLogger.Sync() }()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// 4. Connect to Redis. The advisory locks are an optimization, so a
	// missing Redis degrades to DB-level conflict handling instead of
	// failing startup.
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("redis unavailable, running without stock locks", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 5. Metrics
	m := metrics.New()

	// 6. Repositories
	checkoutRepo := checkoutRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	creditRepo := creditRepoPkg.NewPGRepository(db, cfg.Credit.AllowNegativeBalance)
	saleRepo := saleRepoPkg.NewPGRepository(db)

	// 7. Use cases
	checkoutUC := checkoutUCPkg.NewCheckoutUseCase(checkoutRepo, m, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, redisClient, m, appLogger)
	creditUC := creditUCPkg.NewCreditUseCase(creditRepo, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(saleRepo, appLogger)

	// 8. Kafka listener for incoming purchase orders
	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()
	listener := stockListenerPkg.NewStockListener(consumer, stockUC, appLogger)
	go listener.Start(ctx)

	// 9. HTTP transport
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware)
		checkoutH.NewCheckoutHandler(checkoutUC, appLogger).Register(r)
		stockH.NewStockHandler(stockUC, appLogger).Register(r)
		creditH.NewCreditHandler(creditUC, appLogger).Register(r)
		saleH.NewSaleHandler(saleUC, appLogger).Register(r)
	})

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("http server listening", zap.String("addr", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http server shutdown failed", zap.Error(err))
	}
}
