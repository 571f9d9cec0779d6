package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/config"
	"github.com/hugo050303/barber-saas/internal/db"
	"github.com/hugo050303/barber-saas/internal/events"
	"github.com/hugo050303/barber-saas/internal/grpcapi"
	"github.com/hugo050303/barber-saas/internal/httpapi"
	"github.com/hugo050303/barber-saas/internal/logging"
	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/repository"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/service"
	"github.com/hugo050303/barber-saas/internal/session"
	"github.com/hugo050303/barber-saas/internal/telemetry"
)

func main() {
	// 1. Конфиг: defaults, config.yaml, env.
	cfg, err := config.Load(".", "./config")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	// 2. БД и миграции.
	gormDB, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 3. Репозитории (реализации на GORM).
	providerRepo := repository.NewGormProviderRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	clientRepo := repository.NewGormClientRepository(gormDB)
	appointmentRepo := repository.NewGormAppointmentRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	// 4. Сервисы ядра.
	opts := service.AppointmentOptions{Location: cfg.Scheduling.Location}
	if cfg.Scheduling.StrictTransitions {
		opts.Transitions = scheduling.StrictTransitions{}
	}
	if cfg.Scheduling.RejectOverlaps {
		opts.Conflict = scheduling.RejectOverlaps
	}
	appointments := service.NewAppointmentService(providerRepo, serviceRepo, appointmentRepo, eventRepo, opts, logger)
	clients := service.NewClientDirectory(clientRepo, logger)
	booking := service.NewBookingService(appointments, clients, logger)
	board := service.NewBoardService(appointments, logger)

	var sessions session.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis ping", zap.Error(err))
		}
		sessions = session.NewRedisStore(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, wizard sessions kept in memory")
		sessions = session.NewMemoryStore()
	}

	wizard := service.NewWizardService(appointments, booking, sessions, service.WizardOptions{
		BusinessOpen:   cfg.Scheduling.BusinessOpen,
		BusinessClose:  cfg.Scheduling.BusinessClose,
		SuggestionStep: cfg.Scheduling.SuggestionStep,
		SessionTTL:     cfg.Scheduling.WizardSessionTTL,
	}, logger)

	// 5. Ретрансляция событий в Kafka.
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		relay := events.NewRelay(eventRepo, writer, events.RelayConfig{
			PollEvery: cfg.Kafka.PollInterval,
			BatchSize: cfg.Kafka.BatchSize,
		}, logger)
		go relay.Run(ctx)
	} else {
		logger.Warn("event relay disabled (no kafka brokers configured)")
	}

	// 6. gRPC для персонала.
	grpcServer := grpcapi.NewGRPCServer(grpcapi.NewServer(appointments, booking, board), logger)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("listen grpc", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve", zap.Error(err))
			stop()
		}
	}()

	// 7. Публичный HTTP.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(wizard, cfg.Public, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "public-api"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
			stop()
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
