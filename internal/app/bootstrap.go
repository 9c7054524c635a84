package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/techstore/config"
	"github.com/Gunvolt24/techstore/internal/auth"
	"github.com/Gunvolt24/techstore/internal/builder"
	"github.com/Gunvolt24/techstore/internal/cart"
	"github.com/Gunvolt24/techstore/internal/kafka"
	"github.com/Gunvolt24/techstore/internal/kv"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/internal/repo/postgres"
	rest "github.com/Gunvolt24/techstore/internal/transport/http"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/logger"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/Gunvolt24/techstore/pkg/telemetry"
	"github.com/Gunvolt24/techstore/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger        ports.Logger          // логгер
	HTTPServer    *http.Server          // HTTP-сервер
	KafkaConsumer ports.MessageConsumer // события изменений от других экземпляров
	// Warmup — первичная загрузка кэша; запускается в фоне, сервер принимает запросы сразу.
	Warmup          func(ctx context.Context)
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// StaticDir — каталог собранной витрины.
const StaticDir = "./web"

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// instanceID — из конфигурации или новый UUID.
func instanceID(cfg *config.Config) string {
	if id := strings.TrimSpace(cfg.InstanceID); id != "" {
		return id
	}
	return uuid.NewString()
}

// consumerGroup — у каждого экземпляра своя группа: событие должен получить каждый.
func consumerGroup(cfg *config.Config, instance string) string {
	if cfg.Kafka.GroupID != "" {
		return cfg.Kafka.GroupID
	}
	return "techstore-" + instance
}

// closer — ресурс, который закрывается при остановке.
type closer struct {
	name  string
	close func() error
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, func() {}, err
	}

	// Закрываются в обратном порядке.
	var closers []closer
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].close(); cerr != nil {
				logg.Warnf(ctx, "close %s: %v", closers[i].name, cerr)
			}
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}
	fail := func(err error) (*App, Cleanup, error) {
		release()
		return nil, func() {}, err
	}

	if cfg.Auth.Secret == "" {
		return fail(errors.New("TECHSTORE_AUTH_SECRET is required"))
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	instance := instanceID(cfg)
	clk := clock.NewReal()

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closer{"postgres", func() error { pool.Close(); return nil }})

	if dir := cfg.Postgres.MigrationsDir; dir != "" {
		if err := postgres.Migrate(ctx, pool, dir); err != nil {
			return fail(fmt.Errorf("migrate: %w", err))
		}
		logg.Infof(ctx, "migrations applied dir=%s", dir)
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	if cfg.Tracing.Enabled {
		shutdown, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, instance, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, closer{"tracing", func() error { return shutdown(context.Background()) }})
		}
	}

	// KV: Redis при заданном адресе, иначе память процесса (один экземпляр).
	var store ports.KVStore
	if cfg.Redis.Addr != "" {
		rdb, rErr := kv.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if rErr != nil {
			return fail(fmt.Errorf("redis: %w", rErr))
		}
		closers = append(closers, closer{"redis", rdb.Close})
		store = rdb
	} else {
		logg.Warnf(ctx, "redis is not configured, carts and sessions are kept in memory")
		store = kv.NewMemory(clk)
	}

	// Публикация событий изменений (только при заданных брокерах).
	var publisher ports.ChangePublisher
	if cfg.KafkaEnabled() {
		pub := kafka.NewPublisher(&kafka.PublisherConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		closers = append(closers, closer{"kafka publisher", pub.Close})
		publisher = pub
	}

	// Сборка зависимостей доменного слоя.
	service := usecase.NewStoreService(
		usecase.Repositories{
			Products:   postgres.NewProductRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Orders:     postgres.NewOrderRepository(pool),
			Repairs:    postgres.NewRepairRepository(pool),
			Customers:  postgres.NewCustomerRepository(pool),
		},
		clk, logg, validate.NewCatalogValidator(), publisher,
		usecase.StoreConfig{
			FreshnessWindow: cfg.Cache.FreshnessWindow,
			InstanceID:      instance,
			Checkout: usecase.CheckoutConfig{
				ShippingFlat:     cfg.Checkout.ShippingFlat,
				FreeShippingFrom: cfg.Checkout.FreeShippingFrom,
				TaxRate:          cfg.Checkout.TaxRate,
			},
		},
	)

	gate, err := auth.NewGate(postgres.NewUserRepository(pool), store, clk, logg, auth.Config{
		Secret:         cfg.Auth.Secret,
		TokenTTL:       cfg.Auth.TokenTTL,
		AdminCacheTTL:  cfg.Cache.AdminTTL,
		AdminCacheSize: cfg.Cache.AdminCapacity,
	})
	if err != nil {
		return fail(err)
	}

	// Консьюмер событий изменений; без брокеров — заглушка, ждущая отмены контекста.
	var consumer ports.MessageConsumer = kafka.NoopConsumer{}
	if cfg.KafkaEnabled() {
		consumer = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        consumerGroup(cfg, instance),
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, service, logg)
	} else {
		logg.Warnf(ctx, "kafka is not configured, change events are disabled")
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	handler := rest.NewHandler(rest.Deps{
		Store:          service,
		Carts:          cart.NewStore(store, logg, cfg.Cache.CartTTL),
		Builds:         builder.NewStore(store, logg, cfg.Cache.BuildTTL),
		Auth:           gate,
		Log:            logg,
		HandlerTimeout: cfg.HTTP.HandlerTimeout,
		SignInRate:     cfg.HTTP.SignInRate,
		SignInBurst:    cfg.HTTP.SignInBurst,
	})
	router, err := rest.NewRouter(handler, rest.RouterOptions{
		StaticDir:       StaticDir,
		AllowOrigins:    cfg.CORS.AllowOrigins,
		OTelServiceName: otelServiceName,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		return fail(err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	logg.Infof(ctx, "bootstrap done instance=%s redis=%t kafka=%t", instance, cfg.Redis.Addr != "", cfg.KafkaEnabled())

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		KafkaConsumer:   consumer,
		Warmup:          service.LoadInitial,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	return app, release, nil
}

// Run — запускает HTTP-сервер, консьюмера и первичную загрузку; ждёт отмены контекста
// или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.Warmup != nil {
		go a.Warmup(ctx)
	}

	// Запуск консьюмера.
	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		if err := a.KafkaConsumer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка Kafka-консьюмера
	if err := a.KafkaConsumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
