package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/techstore/internal/cache/memory"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/Gunvolt24/techstore/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultFreshnessWindow — окно свежести кэша коллекций.
const DefaultFreshnessWindow = 30 * time.Second

// Repositories — удалённое хранилище по коллекциям.
type Repositories struct {
	Products   ports.ProductRepository
	Categories ports.CategoryRepository
	Orders     ports.OrderRepository
	Repairs    ports.RepairRepository
	Customers  ports.CustomerRepository
}

// StoreConfig — настройки слоя кэша.
type StoreConfig struct {
	FreshnessWindow time.Duration
	// InstanceID — источник публикуемых событий; свои события при получении игнорируются.
	InstanceID string
	Checkout   CheckoutConfig
}

// StoreService — кэш пяти коллекций поверх удалённого хранилища и мутации с
// принудительной инвалидацией по таблице Invalidations. Транспорт ему неизвестен.
type StoreService struct {
	repos     Repositories
	clock     ports.Clock
	log       ports.Logger
	validator ports.CatalogValidator
	publisher ports.ChangePublisher
	cfg       StoreConfig

	products   *memory.Collection[domain.Product]
	categories *memory.Collection[domain.Category]
	orders     *memory.Collection[domain.Order]
	repairs    *memory.Collection[domain.RepairRequest]
	customers  *memory.Collection[domain.Customer]

	loading atomic.Bool
}

// NewStoreService — DI-конструктор. publisher может быть nil (события не публикуются).
func NewStoreService(
	repos Repositories,
	clock ports.Clock,
	log ports.Logger,
	validator ports.CatalogValidator,
	publisher ports.ChangePublisher,
	cfg StoreConfig,
) *StoreService {
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = DefaultFreshnessWindow
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	s := &StoreService{
		repos:      repos,
		clock:      clock,
		log:        log,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
		products:   memory.NewCollection(cfg.FreshnessWindow, domain.Product.Clone),
		categories: memory.NewCollection(cfg.FreshnessWindow, domain.Category.Clone),
		orders:     memory.NewCollection(cfg.FreshnessWindow, domain.Order.Clone),
		repairs:    memory.NewCollection(cfg.FreshnessWindow, domain.RepairRequest.Clone),
		customers:  memory.NewCollection(cfg.FreshnessWindow, domain.Customer.Clone),
	}
	s.loading.Store(true)
	return s
}

// ------ загрузка и обновление ------

// LoadInitial — параллельная первичная загрузка товаров и категорий.
// Ошибки логируются, но не возвращаются; флаг загрузки снимается в любом случае.
func (s *StoreService) LoadInitial(ctx context.Context) {
	defer s.loading.Store(false)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := s.RefreshProducts(ctx, false); err != nil {
			s.log.Errorf(ctx, "initial load products failed err=%v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.RefreshCategories(ctx, false); err != nil {
			s.log.Errorf(ctx, "initial load categories failed err=%v", err)
		}
	}()
	wg.Wait()

	s.log.Infof(ctx, "initial load done products=%d categories=%d took=%s",
		s.products.Len(), s.categories.Len(), time.Since(start))
}

// Loading — идёт первичная загрузка.
func (s *StoreService) Loading() bool { return s.loading.Load() }

func (s *StoreService) RefreshProducts(ctx context.Context, force bool) error {
	return refresh(ctx, s, CollectionProducts, s.products, s.repos.Products.ListProducts, force)
}

func (s *StoreService) RefreshCategories(ctx context.Context, force bool) error {
	return refresh(ctx, s, CollectionCategories, s.categories, s.repos.Categories.ListCategories, force)
}

func (s *StoreService) RefreshOrders(ctx context.Context, force bool) error {
	return refresh(ctx, s, CollectionOrders, s.orders, s.repos.Orders.ListOrders, force)
}

func (s *StoreService) RefreshRepairRequests(ctx context.Context, force bool) error {
	return refresh(ctx, s, CollectionRepairRequests, s.repairs, s.repos.Repairs.ListRepairRequests, force)
}

func (s *StoreService) RefreshCustomers(ctx context.Context, force bool) error {
	return refresh(ctx, s, CollectionCustomers, s.customers, s.repos.Customers.ListCustomers, force)
}

// RefreshCollection — обновление по имени (админка, события из Kafka).
func (s *StoreService) RefreshCollection(ctx context.Context, name Collection, force bool) error {
	switch name {
	case CollectionProducts:
		return s.RefreshProducts(ctx, force)
	case CollectionCategories:
		return s.RefreshCategories(ctx, force)
	case CollectionOrders:
		return s.RefreshOrders(ctx, force)
	case CollectionRepairRequests:
		return s.RefreshRepairRequests(ctx, force)
	case CollectionCustomers:
		return s.RefreshCustomers(ctx, force)
	}
	return fmt.Errorf("unknown collection %q", name)
}

// refresh — без force и при свежем непустом снимке ничего не делает; иначе забирает
// коллекцию целиком и заменяет снимок. Время фиксируется после ответа хранилища.
// При ошибке снимок и его время не меняются.
func refresh[T any](
	ctx context.Context,
	s *StoreService,
	name Collection,
	coll *memory.Collection[T],
	fetch func(context.Context) ([]T, error),
	force bool,
) error {
	if !force && coll.Fresh(s.clock.Now()) {
		metrics.CollectionRefreshes.WithLabelValues(string(name), "hit").Inc()
		return nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, "refresh "+string(name),
		trace.WithAttributes(attribute.Bool("force", force)))
	defer span.End()

	items, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		metrics.CollectionRefreshes.WithLabelValues(string(name), "error").Inc()
		s.log.Errorf(ctx, "refresh %s failed force=%t err=%v", name, force, err)
		return fmt.Errorf("refresh %s: %w", name, err)
	}
	coll.Replace(items, s.clock.Now())
	span.SetAttributes(attribute.Int("items", len(items)))

	metrics.CollectionRefreshes.WithLabelValues(string(name), "fetch").Inc()
	metrics.CollectionSize.WithLabelValues(string(name)).Set(float64(len(items)))
	return nil
}

// ------ снимки (без обращения к хранилищу) ------

func (s *StoreService) Products() []domain.Product             { return s.products.Snapshot() }
func (s *StoreService) Categories() []domain.Category          { return s.categories.Snapshot() }
func (s *StoreService) Orders() []domain.Order                 { return s.orders.Snapshot() }
func (s *StoreService) RepairRequests() []domain.RepairRequest { return s.repairs.Snapshot() }
func (s *StoreService) Customers() []domain.Customer           { return s.customers.Snapshot() }

// ------ чтение через кэш ------

func (s *StoreService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := s.RefreshProducts(ctx, false); err != nil {
		return nil, err
	}
	return s.products.Snapshot(), nil
}

func (s *StoreService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := s.RefreshCategories(ctx, false); err != nil {
		return nil, err
	}
	return s.categories.Snapshot(), nil
}

func (s *StoreService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := s.RefreshOrders(ctx, false); err != nil {
		return nil, err
	}
	return s.orders.Snapshot(), nil
}

func (s *StoreService) ListRepairRequests(ctx context.Context) ([]domain.RepairRequest, error) {
	if err := s.RefreshRepairRequests(ctx, false); err != nil {
		return nil, err
	}
	return s.repairs.Snapshot(), nil
}

func (s *StoreService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	if err := s.RefreshCustomers(ctx, false); err != nil {
		return nil, err
	}
	return s.customers.Snapshot(), nil
}

// ------ вспомогательные функции мутаций ------

// afterMutation — принудительно обновляет коллекции из таблицы инвалидации (по порядку,
// до первой ошибки) и публикует событие. Публикация выполняется и при ошибке обновления:
// изменение в хранилище уже произошло.
func (s *StoreService) afterMutation(ctx context.Context, m Mutation) error {
	metrics.Mutations.WithLabelValues(string(m), "ok").Inc()

	var refreshErr error
	for _, c := range Invalidations[m] {
		if err := s.RefreshCollection(ctx, c, true); err != nil {
			refreshErr = fmt.Errorf("%s: %w", m, err)
			break
		}
	}
	s.publish(ctx, m)
	return refreshErr
}

// mutationFailed — ошибка хранилища: ничего не обновляем.
func (s *StoreService) mutationFailed(ctx context.Context, m Mutation, err error) error {
	metrics.Mutations.WithLabelValues(string(m), "error").Inc()
	s.log.Errorf(ctx, "%s failed err=%v", m, err)
	return fmt.Errorf("%s: %w", m, err)
}

func (s *StoreService) publish(ctx context.Context, m Mutation) {
	cols := Invalidations[m]
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	ev := &domain.ChangeEvent{
		Mutation:    string(m),
		Collections: names,
		Origin:      s.cfg.InstanceID,
		At:          s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warnf(ctx, "publish change event mutation=%s failed err=%v", m, err)
	}
}

// randomCode — 6 символов [0-9A-F] для человекочитаемых номеров.
func randomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *domain.ChangeEvent) error { return nil }
func (noopPublisher) Close() error                                      { return nil }
