package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

type mutationCase struct {
	mutation usecase.Mutation
	setup    func(f *fixture)
	run      func(ctx context.Context, f *fixture) error
}

func mutationCases() []mutationCase {
	createdRepair := func(_ context.Context, r *domain.RepairRequest) (*domain.RepairRequest, error) {
		cp := *r
		cp.ID = "r-new"
		return &cp, nil
	}
	upsert := func(f *fixture) {
		f.customers.EXPECT().UpsertCustomerByPhone(gomock.Any(), gomock.Any()).Return(&domain.Customer{ID: "cu1"}, nil)
	}
	return []mutationCase{
		{usecase.MutationAddProduct,
			func(f *fixture) {
				f.products.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(&domain.Product{ID: "p-new"}, nil)
			},
			func(ctx context.Context, f *fixture) error { _, err := f.svc.AddProduct(ctx, newProduct()); return err }},
		{usecase.MutationUpdateProduct,
			func(f *fixture) { f.products.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).Return(nil) },
			func(ctx context.Context, f *fixture) error { return f.svc.UpdateProduct(ctx, newProduct()) }},
		{usecase.MutationDeleteProduct,
			func(f *fixture) { f.products.EXPECT().DeleteProduct(gomock.Any(), "p1").Return(nil) },
			func(ctx context.Context, f *fixture) error { return f.svc.DeleteProduct(ctx, "p1") }},
		{usecase.MutationAddCategory,
			func(f *fixture) {
				f.categories.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(&domain.Category{ID: "c-new"}, nil)
			},
			func(ctx context.Context, f *fixture) error {
				_, err := f.svc.AddCategory(ctx, &domain.Category{Name: "GPUs"})
				return err
			}},
		{usecase.MutationUpdateCategory,
			func(f *fixture) { f.categories.EXPECT().UpdateCategory(gomock.Any(), gomock.Any()).Return(nil) },
			func(ctx context.Context, f *fixture) error {
				return f.svc.UpdateCategory(ctx, &domain.Category{ID: "c1", Name: "Graphics"})
			}},
		{usecase.MutationDeleteCategory,
			func(f *fixture) { f.categories.EXPECT().DeleteCategory(gomock.Any(), "c1").Return(nil) },
			func(ctx context.Context, f *fixture) error { return f.svc.DeleteCategory(ctx, "c1") }},
		{usecase.MutationUpdateOrderStatus,
			func(f *fixture) {
				f.orders.EXPECT().UpdateOrderStatus(gomock.Any(), "o1", domain.OrderShipped).Return(nil)
			},
			func(ctx context.Context, f *fixture) error { return f.svc.UpdateOrderStatus(ctx, "o1", domain.OrderShipped) }},
		{usecase.MutationPlaceOrder,
			func(f *fixture) {
				upsert(f)
				f.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, o *domain.Order) (*domain.Order, error) { cp := *o; cp.ID = "o-new"; return &cp, nil })
			},
			func(ctx context.Context, f *fixture) error {
				items := []domain.CartItem{{Product: domain.Product{ID: "p1", Price: 100}, Quantity: 1}}
				_, err := f.svc.PlaceOrder(ctx, items, validCustomer())
				return err
			}},
		{usecase.MutationAddRepairRequest,
			func(f *fixture) {
				upsert(f)
				f.repairs.EXPECT().CreateRepairRequest(gomock.Any(), gomock.Any()).DoAndReturn(createdRepair)
			},
			func(ctx context.Context, f *fixture) error {
				_, err := f.svc.AddRepairRequest(ctx, &domain.RepairIntake{
					Customer: validCustomer(), DeviceBrand: "Apple", DeviceModel: "MBP", DeviceType: "laptop",
					Issue: "battery", ServiceType: "repair",
				})
				return err
			}},
		{usecase.MutationUpdateRepairStatus,
			func(f *fixture) {
				f.repairs.EXPECT().UpdateRepairStatus(gomock.Any(), "r1", domain.RepairCompleted).Return(nil)
			},
			func(ctx context.Context, f *fixture) error {
				return f.svc.UpdateRepairStatus(ctx, "r1", domain.RepairCompleted)
			}},
		{usecase.MutationUpdateRepairRequest,
			func(f *fixture) { f.repairs.EXPECT().UpdateRepairRequest(gomock.Any(), "r1", gomock.Any()).Return(nil) },
			func(ctx context.Context, f *fixture) error {
				return f.svc.UpdateRepairRequest(ctx, "r1", &domain.RepairUpdate{Technician: ptr("Bob")})
			}},
		{usecase.MutationDeleteRepairRequest,
			func(f *fixture) { f.repairs.EXPECT().DeleteRepairRequest(gomock.Any(), "r1").Return(nil) },
			func(ctx context.Context, f *fixture) error { return f.svc.DeleteRepairRequest(ctx, "r1") }},
	}
}

func TestMutations_RefreshInvalidationTableInOrder(t *testing.T) {
	cases := mutationCases()
	if len(cases) != len(usecase.Invalidations) {
		t.Fatalf("cases=%d, invalidation table=%d: every mutation must be covered", len(cases), len(usecase.Invalidations))
	}

	for _, tc := range cases {
		t.Run(string(tc.mutation), func(t *testing.T) {
			f := newFixture(t)
			f.allowPublish()
			tc.setup(f)

			var seen []usecase.Collection
			for _, c := range usecase.Invalidations[tc.mutation] {
				f.expectList(c, &seen)
			}

			if err := tc.run(context.Background(), f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(usecase.Invalidations[tc.mutation], seen); diff != "" {
				t.Fatalf("refresh order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// После успешной мутации чтение внутри окна свежести видит новое значение.
func TestUpdateProduct_ReadAfterWriteWithinWindow(t *testing.T) {
	f := newFixture(t)
	f.allowPublish()
	ctx := context.Background()

	before := domain.Product{ID: "p1", Name: "CPU", CategoryID: "c1", Price: 100}
	after := before
	after.Price = 80

	gomock.InOrder(
		f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{before}, nil),
		f.products.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).Return(nil),
		f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{after}, nil),
	)
	f.expectList(usecase.CollectionCategories, nil)

	if _, err := f.svc.ListProducts(ctx); err != nil {
		t.Fatal(err)
	}
	f.clk.Add(5 * time.Second)
	if err := f.svc.UpdateProduct(ctx, &after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.clk.Add(5 * time.Second)

	got, err := f.svc.Product(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Price != 80 {
		t.Fatalf("stale price after mutation: %v", got.Price)
	}
}

func TestMutation_RemoteFailureSkipsRefreshAndPublish(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("constraint violation")

	f.products.EXPECT().DeleteProduct(gomock.Any(), "p1").Return(boom)
	f.products.EXPECT().ListProducts(gomock.Any()).Times(0)
	f.categories.EXPECT().ListCategories(gomock.Any()).Times(0)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := f.svc.DeleteProduct(context.Background(), "p1")
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped remote error, got %v", err)
	}
}

func TestMutation_ValidationFailureSkipsRemote(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Times(0)

	bad := newProduct()
	bad.Price = -1
	_, err := f.svc.AddProduct(context.Background(), bad)
	if !errors.Is(err, validate.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestStatusUpdates_RejectUnknownValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.UpdateOrderStatus(ctx, "o1", domain.OrderStatus("lost")); !errors.Is(err, validate.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for order status, got %v", err)
	}
	if err := f.svc.UpdateRepairStatus(ctx, "r1", domain.RepairStatus("exploded")); !errors.Is(err, validate.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for repair status, got %v", err)
	}
	if err := f.svc.UpdateRepairRequest(ctx, "r1", &domain.RepairUpdate{FinalCost: ptr(-5.0)}); !errors.Is(err, validate.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for negative cost, got %v", err)
	}
}

// Переходы свободные: из завершённого можно вернуться в диагностику.
func TestUpdateRepairStatus_FreeFormTransition(t *testing.T) {
	f := newFixture(t)
	f.allowPublish()
	f.repairs.EXPECT().UpdateRepairStatus(gomock.Any(), "r1", domain.RepairDiagnosing).Return(nil)
	f.expectList(usecase.CollectionRepairRequests, nil)

	if err := f.svc.UpdateRepairStatus(context.Background(), "r1", domain.RepairDiagnosing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMutation_PublishesChangeEvent(t *testing.T) {
	f := newFixture(t)
	f.categories.EXPECT().DeleteCategory(gomock.Any(), "c1").Return(nil)
	f.expectList(usecase.CollectionCategories, nil)
	f.expectList(usecase.CollectionProducts, nil)

	var got *domain.ChangeEvent
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev *domain.ChangeEvent) error { got = ev; return nil })

	if err := f.svc.DeleteCategory(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &domain.ChangeEvent{
		Mutation:    "delete_category",
		Collections: []string{"categories", "products"},
		Origin:      instanceID,
		At:          t0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestMutation_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.orders.EXPECT().UpdateOrderStatus(gomock.Any(), "o1", domain.OrderCancelled).Return(nil)
	f.expectList(usecase.CollectionOrders, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	if err := f.svc.UpdateOrderStatus(context.Background(), "o1", domain.OrderCancelled); err != nil {
		t.Fatalf("publish failure must not fail the mutation: %v", err)
	}
}

// Запись уже прошла, поэтому событие уходит и при ошибке обновления: другие
// экземпляры перечитают коллекции сами.
func TestMutation_RefreshFailureStopsChainButPublishes(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("read timeout")

	var published *domain.ChangeEvent
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev *domain.ChangeEvent) error {
			published = ev
			return nil
		}).Times(1)
	f.products.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).Return(nil)
	f.products.EXPECT().ListProducts(gomock.Any()).Return(nil, boom)
	f.categories.EXPECT().ListCategories(gomock.Any()).Times(0)

	err := f.svc.UpdateProduct(context.Background(), newProduct())
	if !errors.Is(err, boom) {
		t.Fatalf("want refresh error, got %v", err)
	}
	if published == nil || published.Mutation != string(usecase.MutationUpdateProduct) {
		t.Fatalf("expected update_product event despite refresh failure, got %+v", published)
	}
}
