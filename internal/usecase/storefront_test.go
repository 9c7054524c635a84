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

func catalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Ryzen 7 7800X3D", CategoryID: "cpu", CategoryName: "Processors", Price: 449, Stock: 3,
			Rating: 4.9, Featured: true, Specs: []string{"Socket: AM5"}, CreatedAt: t0.Add(-48 * time.Hour)},
		{ID: "p2", Name: "Core i5-14600K", CategoryID: "cpu", CategoryName: "Processors", Price: 319, Stock: 0,
			Rating: 4.6, Specs: []string{"Socket: LGA1700"}, CreatedAt: t0.Add(-24 * time.Hour)},
		{ID: "p3", Name: "RTX 4070 Super", CategoryID: "gpu", CategoryName: "Graphics Cards", Price: 599, Stock: 12,
			Rating: 4.7, Featured: true, Specs: []string{"TDP: 220W"}, CreatedAt: t0},
		{ID: "p4", Name: "B650 Tomahawk", CategoryID: "mb", CategoryName: "Motherboards", Price: 219, Stock: 7,
			Rating: 4.4, Specs: []string{"Socket: AM5", "Form factor: ATX"}, CreatedAt: t0.Add(-72 * time.Hour)},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].ID
	}
	return out
}

func TestSearchProducts(t *testing.T) {
	tests := []struct {
		name      string
		q         usecase.ProductQuery
		wantIDs   []string
		wantTotal int
	}{
		{"no filters keeps store order", usecase.ProductQuery{}, []string{"p1", "p2", "p3", "p4"}, 4},
		{"category by id", usecase.ProductQuery{Category: "cpu"}, []string{"p1", "p2"}, 2},
		{"category by name", usecase.ProductQuery{Category: "graphics cards"}, []string{"p3"}, 1},
		{"search in specs", usecase.ProductQuery{Search: "am5"}, []string{"p1", "p4"}, 2},
		{"search in name", usecase.ProductQuery{Search: "RTX"}, []string{"p3"}, 1},
		{"in stock", usecase.ProductQuery{InStock: true, Category: "cpu"}, []string{"p1"}, 1},
		{"price range", usecase.ProductQuery{MinPrice: ptr(300.0), MaxPrice: ptr(500.0)}, []string{"p1", "p2"}, 2},
		{"featured", usecase.ProductQuery{Featured: true}, []string{"p1", "p3"}, 2},
		{"price asc", usecase.ProductQuery{Sort: usecase.SortPriceAsc}, []string{"p4", "p2", "p1", "p3"}, 4},
		{"price desc", usecase.ProductQuery{Sort: usecase.SortPriceDesc}, []string{"p3", "p1", "p2", "p4"}, 4},
		{"rating", usecase.ProductQuery{Sort: usecase.SortRating}, []string{"p1", "p3", "p2", "p4"}, 4},
		{"newest", usecase.ProductQuery{Sort: usecase.SortNewest}, []string{"p3", "p2", "p1", "p4"}, 4},
		{"name", usecase.ProductQuery{Sort: usecase.SortName}, []string{"p4", "p2", "p3", "p1"}, 4},
		{"paginated", usecase.ProductQuery{Sort: usecase.SortPriceAsc, Limit: 2, Offset: 1}, []string{"p2", "p1"}, 4},
		{"offset past end", usecase.ProductQuery{Offset: 10}, []string{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.products.EXPECT().ListProducts(gomock.Any()).Return(catalog(), nil)

			page, err := f.svc.SearchProducts(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ids(page.Items)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", got, tt.wantIDs)
				}
			}
			if page.Total != tt.wantTotal {
				t.Fatalf("total=%d want %d", page.Total, tt.wantTotal)
			}
		})
	}
}

func TestSearchProducts_DoesNotCorruptCache(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().ListProducts(gomock.Any()).Return(catalog(), nil)
	ctx := context.Background()

	if _, err := f.svc.SearchProducts(ctx, usecase.ProductQuery{Category: "gpu", Sort: usecase.SortName}); err != nil {
		t.Fatal(err)
	}
	if got := ids(f.svc.Products()); len(got) != 4 || got[0] != "p1" {
		t.Fatalf("cached catalog mutated: %v", got)
	}
}

func TestFeaturedProducts(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().ListProducts(gomock.Any()).Return(catalog(), nil)

	got, err := f.svc.FeaturedProducts(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("unexpected featured: %v", ids(got))
	}
}

func TestProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().ListProducts(gomock.Any()).Return(catalog(), nil)

	_, err := f.svc.Product(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
