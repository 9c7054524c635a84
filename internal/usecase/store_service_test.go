package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/golang/mock/gomock"
)

func TestRefreshProducts_FreshSkipsRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.expectList(usecase.CollectionProducts, nil) // ровно один вызов

	if err := f.svc.RefreshProducts(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.clk.Add(29 * time.Second)
	if err := f.svc.RefreshProducts(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.svc.Products(); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestRefreshProducts_StaleAfterWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{{ID: "p1"}}, nil).Times(2)

	_ = f.svc.RefreshProducts(ctx, false)
	f.clk.Add(30 * time.Second)
	if err := f.svc.RefreshProducts(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshProducts_EmptyCollectionAlwaysRefetched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// пустой ответ: свежее время не спасает от повторного запроса
	f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{}, nil).Times(2)

	_ = f.svc.RefreshProducts(ctx, false)
	f.clk.Add(time.Second)
	if err := f.svc.RefreshProducts(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshProducts_ForceBypassesWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{{ID: "p1"}}, nil).Times(2)

	_ = f.svc.RefreshProducts(ctx, false)
	if err := f.svc.RefreshProducts(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefresh_ErrorKeepsPreviousState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("remote down")

	gomock.InOrder(
		f.categories.EXPECT().ListCategories(gomock.Any()).Return([]domain.Category{{ID: "c1"}}, nil),
		f.categories.EXPECT().ListCategories(gomock.Any()).Return(nil, boom).Times(2),
	)

	_ = f.svc.RefreshCategories(ctx, false)
	f.clk.Add(time.Minute)

	err := f.svc.RefreshCategories(ctx, true)
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped remote error, got %v", err)
	}
	if got := f.svc.Categories(); len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("previous snapshot lost: %+v", got)
	}
	// время не обновилось — кэш по-прежнему устаревший
	if _, err := f.svc.ListCategories(ctx); err == nil {
		t.Fatalf("expected stale cache to hit the remote store again")
	}
}

func TestListX_ServeFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range usecase.Collections {
		f.expectList(c, nil)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.svc.ListProducts(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ListCategories(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ListOrders(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ListRepairRequests(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ListCustomers(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.svc.Orders()) != 1 || len(f.svc.RepairRequests()) != 1 || len(f.svc.Customers()) != 1 {
		t.Fatalf("snapshots not populated")
	}
}

func TestRefreshCollection_Unknown(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.RefreshCollection(context.Background(), usecase.Collection("widgets"), true); err == nil {
		t.Fatalf("expected error for unknown collection")
	}
}

func TestLoadInitial_ClearsLoadingFlag(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.expectList(usecase.CollectionProducts, nil)
		f.expectList(usecase.CollectionCategories, nil)

		if !f.svc.Loading() {
			t.Fatalf("service must start in loading state")
		}
		f.svc.LoadInitial(context.Background())
		if f.svc.Loading() {
			t.Fatalf("loading flag not cleared")
		}
		if len(f.svc.Products()) != 1 || len(f.svc.Categories()) != 1 {
			t.Fatalf("initial collections not loaded")
		}
	})

	t.Run("one fetch fails", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().ListProducts(gomock.Any()).Return(nil, errors.New("timeout"))
		f.expectList(usecase.CollectionCategories, nil)

		f.svc.LoadInitial(context.Background())
		if f.svc.Loading() {
			t.Fatalf("loading flag must be cleared on failure")
		}
		if len(f.svc.Categories()) != 1 {
			t.Fatalf("successful fetch must still populate categories")
		}
	})
}
