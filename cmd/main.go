package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	createSeriesHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/create_series"
	getAvailabilityHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_availability"
	getCatalogueHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_catalogue"
	getSeriesHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_series"
	selectionSessionHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/selection_session"
	submitBookingHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/submit_booking"
	updateSeriesHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/update_series"
	"github.com/m04kA/SMC-SlotEngine/internal/api/middleware"
	"github.com/m04kA/SMC-SlotEngine/internal/config"
	"github.com/m04kA/SMC-SlotEngine/internal/infra/cache"
	seriesRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/series"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	mirrorService "github.com/m04kA/SMC-SlotEngine/internal/service/mirror"
	seriesService "github.com/m04kA/SMC-SlotEngine/internal/service/series"
	sessionsService "github.com/m04kA/SMC-SlotEngine/internal/service/sessions"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
	getAvailabilityUC "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_availability"
	getCatalogueUC "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_catalogue"
	submitBookingUC "github.com/m04kA/SMC-SlotEngine/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
	"github.com/m04kA/SMC-SlotEngine/pkg/metrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/txmanager"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// snapshotCache хранилище снимков зеркала с освобождением ресурсов
type snapshotCache interface {
	mirrorService.Cache
	Close() error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SlotEngine...")
	log.Info("Configuration loaded from %s", configPath)

	// Фоновые задачи (сбор статистики пула, очистка сессий, генерация серий) живут до остановки сервера
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Сетка слотов и часовой пояс арендатора (config.Validate уже проверил значения)
	location, err := cfg.Engine.Location()
	if err != nil {
		log.Fatal("Invalid engine timezone: %v", err)
	}
	axis, err := slotgrid.NewAxis(
		types.MustTimeString(cfg.Engine.GridOpen),
		types.MustTimeString(cfg.Engine.GridClose),
		cfg.Engine.GranularityMinutes,
	)
	if err != nil {
		log.Fatal("Invalid slot grid: %v", err)
	}
	policy, err := availability.ParsePolicy(cfg.Engine.UnreportedHourPolicy)
	if err != nil {
		log.Fatal("Invalid unreported hour policy: %v", err)
	}
	log.Info("Slot grid: %s-%s step=%dm, timezone=%s, unreported_hours=%s",
		cfg.Engine.GridOpen, cfg.Engine.GridClose, cfg.Engine.GranularityMinutes, location, cfg.Engine.UnreportedHourPolicy)

	// Подключаемся к базе данных (правила повторяющихся серий)
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка с метриками; при выключенных метриках только прокидывает вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, ctx.Done())
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Клиент авторитетного бэкенда бронирований
	backendClient := backend.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		cfg.Backend.TenantID,
		location,
		log,
	)
	log.Info("Backend client initialized (url=%s, timeout=%ds)", cfg.Backend.URL, cfg.Backend.Timeout)

	// Зеркало бронирований: память процесса или Redis
	cacheTTL := time.Duration(cfg.Cache.TTL) * time.Second
	var snapshots snapshotCache
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		redisClient, err := cache.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		snapshots = cache.NewRedis(redisClient, cacheTTL)
		log.Info("Reservation mirror: redis (addr=%s, db=%d, ttl=%ds)", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.TTL)
	default:
		snapshots = cache.NewMemory(cfg.Cache.Size, cacheTTL)
		log.Info("Reservation mirror: memory (size=%d, ttl=%ds)", cfg.Cache.Size, cfg.Cache.TTL)
	}
	defer snapshots.Close()

	// Инициализируем сервисы
	mirror := mirrorService.NewService(
		backendClient,
		snapshots,
		availability.NewBuilder(axis, policy),
		metricsCollector,
		location,
		log,
	)

	sessionStore := sessionsService.NewStore(time.Duration(cfg.Sessions.TTL) * time.Second)
	go sessionStore.Run(ctx, time.Duration(cfg.Sessions.SweepInterval)*time.Second, log)
	sessionSvc := sessionsService.NewService(sessionStore, mirror, log)

	limiter := rate.NewLimiter(rate.Limit(cfg.Series.RatePerSecond), cfg.Series.Burst)
	seriesSvc := seriesService.NewService(
		seriesRepo.NewRepository(wrappedDB),
		backendClient,
		mirror,
		txManager,
		limiter,
		metricsCollector,
		seriesService.Options{
			Axis:              axis,
			Location:          location,
			DelegateToBackend: cfg.Series.DelegateToBackend,
		},
		log,
	)
	if cfg.Series.GenerationInterval > 0 {
		go seriesSvc.Run(ctx, time.Duration(cfg.Series.GenerationInterval)*time.Second)
		log.Info("Series horizon extension every %ds (delegate_to_backend=%t)",
			cfg.Series.GenerationInterval, cfg.Series.DelegateToBackend)
	}

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(mirror, metricsCollector, log)
	getCatalogueUseCase := getCatalogueUC.NewUseCase(mirror, log)
	submitBookingUseCase := submitBookingUC.NewUseCase(
		sessionStore,
		backendClient,
		mirror,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getCatalogue := getCatalogueHandler.NewHandler(getCatalogueUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	selectionSession := selectionSessionHandler.NewHandler(sessionSvc, location, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	createSeries := createSeriesHandler.NewHandler(seriesSvc, location, log)
	getSeries := getSeriesHandler.NewHandler(seriesSvc, log)
	updateSeries := updateSeriesHandler.NewHandler(seriesSvc, location, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог ресурсов и длительностей
	api.HandleFunc("/catalogue", getCatalogue.Handle).Methods(http.MethodGet)

	// Карта доступности ресурса на дату
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Сессия выбора слота ---
	api.HandleFunc("/sessions", selectionSession.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", selectionSession.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}", selectionSession.Close).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionId}/activate", selectionSession.Activate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/refresh", selectionSession.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/duration", selectionSession.ChooseDuration).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/customer", selectionSession.SetCustomer).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/submit", submitBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/{action:cancel|retry|dismiss|abandon}",
		selectionSession.Transition).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Повторяющиеся серии ---
	protected.HandleFunc("/series", createSeries.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/series/{seriesId}", getSeries.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/series/{seriesId}", updateSeries.Truncate).Methods(http.MethodPatch)
	protected.HandleFunc("/series/{seriesId}", updateSeries.Deactivate).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	stop()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
