package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports/mocks"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/validate"
	"github.com/golang/mock/gomock"
)

const instanceID = "node-a"

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

type fixture struct {
	products   *mocks.MockProductRepository
	categories *mocks.MockCategoryRepository
	orders     *mocks.MockOrderRepository
	repairs    *mocks.MockRepairRepository
	customers  *mocks.MockCustomerRepository
	publisher  *mocks.MockChangePublisher
	clk        *clock.Manual
	svc        *usecase.StoreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		products:   mocks.NewMockProductRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		orders:     mocks.NewMockOrderRepository(ctrl),
		repairs:    mocks.NewMockRepairRepository(ctrl),
		customers:  mocks.NewMockCustomerRepository(ctrl),
		publisher:  mocks.NewMockChangePublisher(ctrl),
		clk:        clock.NewManual(t0),
	}
	f.svc = usecase.NewStoreService(
		usecase.Repositories{
			Products:   f.products,
			Categories: f.categories,
			Orders:     f.orders,
			Repairs:    f.repairs,
			Customers:  f.customers,
		},
		f.clk,
		noopLogger{},
		validate.NewCatalogValidator(),
		f.publisher,
		usecase.StoreConfig{
			FreshnessWindow: 30 * time.Second,
			InstanceID:      instanceID,
			Checkout:        usecase.CheckoutConfig{ShippingFlat: 15, FreeShippingFrom: 500, TaxRate: 0.1},
		},
	)
	return f
}

// allowPublish — события публикуются, но в тесте не проверяются.
func (f *fixture) allowPublish() {
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// expectList — ожидание одного полного чтения коллекции; порядок вызовов пишется в seen.
func (f *fixture) expectList(c usecase.Collection, seen *[]usecase.Collection) {
	mark := func() {
		if seen != nil {
			*seen = append(*seen, c)
		}
	}
	switch c {
	case usecase.CollectionProducts:
		f.products.EXPECT().ListProducts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Product, error) {
			mark()
			return []domain.Product{{ID: "p1", Name: "CPU", Price: 100}}, nil
		})
	case usecase.CollectionCategories:
		f.categories.EXPECT().ListCategories(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Category, error) {
			mark()
			return []domain.Category{{ID: "c1", Name: "CPUs", ProductCount: 1}}, nil
		})
	case usecase.CollectionOrders:
		f.orders.EXPECT().ListOrders(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Order, error) {
			mark()
			return []domain.Order{{ID: "o1", Status: domain.OrderPending}}, nil
		})
	case usecase.CollectionRepairRequests:
		f.repairs.EXPECT().ListRepairRequests(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.RepairRequest, error) {
			mark()
			return []domain.RepairRequest{{ID: "r1", RepairID: "RPR-ABC123", Status: domain.RepairReceived}}, nil
		})
	case usecase.CollectionCustomers:
		f.customers.EXPECT().ListCustomers(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Customer, error) {
			mark()
			return []domain.Customer{{ID: "cu1", Name: "Ann", Phone: "+15550102030"}}, nil
		})
	}
}

func newProduct() *domain.Product {
	return &domain.Product{Name: "Ryzen 5 7600", CategoryID: "c1", Price: 199, Stock: 10}
}

func validCustomer() domain.CustomerInput {
	return domain.CustomerInput{Name: "Ann", Phone: "+1 555 010 2030", Address: "Main st. 1"}
}

func ptr[T any](v T) *T { return &v }
