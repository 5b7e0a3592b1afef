package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gw-transaction-processor/internal/api/handlers"
	"gw-transaction-processor/internal/api/middlew"
	"gw-transaction-processor/internal/cache"
	"gw-transaction-processor/internal/config"
	"gw-transaction-processor/internal/db"
	"gw-transaction-processor/internal/kafka"
	"gw-transaction-processor/internal/server"
	"gw-transaction-processor/internal/service"
	"gw-transaction-processor/internal/storage/postgres"
	"gw-transaction-processor/pkg/logger"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	log           *slog.Logger
	server        *server.Server
	pool          *pgxpool.Pool
	logFile       *os.File
	cfg           *config.Config
	kafkaProducer kafka.Producer
	cache         cache.Cache
	finalizer     *service.Finalizer
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("transaction-processor.log")
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}
	log.Info("конфигурация загружена", slog.String("port", cfg.HTTPPort))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), "migrations", log); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	poolCfg := db.DefaultPoolConfig("gw-transaction-processor")

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), poolCfg, log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	var transactionCache cache.Cache
	if cfg.Redis.Enabled {
		log.Info("инициализация redis cache", slog.String("addr", cfg.Redis.Addr))
		transactionCache, err = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации redis: %w", err)
		}
	} else {
		log.Info("redis отключен в конфигурации")
		transactionCache = cache.NewNoOpCache()
	}

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.Recoverer)
	srv.Router.Use(middlew.Metrics)
	srv.RegisterSwagger()
	srv.RegisterMetrics()

	return &App{
		log:           log,
		server:        srv,
		pool:          pool,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		kafkaProducer: kafkaProducer,
		cache:         transactionCache,
	}, nil
}

func (a *App) BuildTransactionLayer() {
	repo := postgres.NewTransactionRepository(a.pool)
	processor := service.NewSimulatedProcessor(a.cfg.Finalizer.ProcessingDelay)

	a.finalizer = service.NewFinalizer(
		repo,
		processor,
		a.kafkaProducer,
		a.cache,
		a.cfg.Finalizer.Workers,
		a.cfg.Finalizer.QueueSize,
		a.log,
	)

	transactionService := service.NewTransactionService(repo, a.finalizer, a.cache, a.log)

	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(transactionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	a.server.Router.Get("/", healthHandler.HealthCheck)
	a.server.Router.Post("/v1/webhooks/transactions", webhookHandler.ReceiveTransaction)
	a.server.Router.Get("/v1/transactions/{transactionID}", transactionHandler.GetTransaction)

	a.log.Info("слой 'transactions' собран и маршруты зарегистрированы")
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.finalizer != nil {
		a.log.Info("остановка finalizer")
		if err := a.finalizer.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке finalizer", slog.String("error", err.Error()))
		}
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Error("ошибка при закрытии redis cache", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
