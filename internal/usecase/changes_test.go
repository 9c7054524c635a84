package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

func TestApplyChange_InvalidEvents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"no collections", `{"mutation":"update_product","collections":[],"origin":"node-b"}`},
		{"unknown collection", `{"mutation":"x","collections":["products","widgets"],"origin":"node-b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.products.EXPECT().ListProducts(gomock.Any()).Times(0)

			err := f.svc.ApplyChange(context.Background(), []byte(tt.raw))
			if !errors.Is(err, usecase.ErrInvalidEvent) {
				t.Fatalf("want ErrInvalidEvent, got %v", err)
			}
		})
	}
}

func TestApplyChange_OwnOriginIgnored(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().ListProducts(gomock.Any()).Times(0)

	raw := `{"mutation":"update_product","collections":["products","categories"],"origin":"` + instanceID + `"}`
	if err := f.svc.ApplyChange(context.Background(), []byte(raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyChange_ForceRefreshesListed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// свежий кэш не мешает применению события
	f.expectList(usecase.CollectionCategories, nil)
	if err := f.svc.RefreshCategories(ctx, false); err != nil {
		t.Fatal(err)
	}

	var seen []usecase.Collection
	f.expectList(usecase.CollectionCategories, &seen)
	f.expectList(usecase.CollectionProducts, &seen)

	raw := `{"mutation":"delete_category","collections":["categories","products"],"origin":"node-b"}`
	if err := f.svc.ApplyChange(ctx, []byte(raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []usecase.Collection{usecase.CollectionCategories, usecase.CollectionProducts}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("refresh order mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyChange_RemoteErrorIsRetryable(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("remote down")
	f.orders.EXPECT().ListOrders(gomock.Any()).Return(nil, boom)

	err := f.svc.ApplyChange(context.Background(), []byte(`{"mutation":"place_order","collections":["orders"]}`))
	if !errors.Is(err, boom) || errors.Is(err, usecase.ErrInvalidEvent) {
		t.Fatalf("want retryable remote error, got %v", err)
	}
}

func TestParseCollection(t *testing.T) {
	for _, c := range usecase.Collections {
		got, err := usecase.ParseCollection(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseCollection(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := usecase.ParseCollection("repairRequests"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}
