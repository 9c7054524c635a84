package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/tealeg/xlsx"
)

func TestExportProducts_Workbook(t *testing.T) {
	f := newFixture(t)
	orig := 499.0
	f.products.EXPECT().ListProducts(gomock.Any()).Return([]domain.Product{
		{ID: "p1", Name: "Ryzen 7", CategoryName: "Processors", Price: 449, OriginalPrice: &orig, Stock: 3,
			Specs: []string{"Socket: AM5", "TDP: 120W"}, CreatedAt: t0, UpdatedAt: t0},
		{ID: "p2", Name: "RTX 4070", CategoryName: "Graphics", Price: 599, Stock: 0},
	}, nil)

	var buf bytes.Buffer
	if err := f.svc.ExportProducts(context.Background(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	if len(file.Sheets) != 1 || file.Sheets[0].Name != "Products" {
		t.Fatalf("unexpected sheets: %d", len(file.Sheets))
	}
	rows := file.Sheets[0].Rows
	if len(rows) != 3 {
		t.Fatalf("rows=%d want header + 2", len(rows))
	}
	if got := rows[0].Cells[0].String(); got != "ID" {
		t.Fatalf("header[0]=%q", got)
	}
	if got := rows[1].Cells[1].String(); got != "Ryzen 7" {
		t.Fatalf("name cell=%q", got)
	}
	if got := rows[1].Cells[6].String(); got != string(domain.StockLow) {
		t.Fatalf("stock status cell=%q", got)
	}
	if got := rows[1].Cells[10].String(); got != "Socket: AM5; TDP: 120W" {
		t.Fatalf("specs cell=%q", got)
	}
	if got := rows[2].Cells[6].String(); got != string(domain.StockOut) {
		t.Fatalf("stock status cell=%q", got)
	}
}

func TestExportProducts_RemoteError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("remote down")
	f.products.EXPECT().ListProducts(gomock.Any()).Return(nil, boom)

	var buf bytes.Buffer
	if err := f.svc.ExportProducts(context.Background(), &buf); !errors.Is(err, boom) {
		t.Fatalf("want remote error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing must be written on error")
	}
}
