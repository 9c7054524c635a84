package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{
	"ID", "Name", "Category", "Price", "OriginalPrice", "Stock", "StockStatus",
	"Rating", "Reviews", "Featured", "Specs", "CreatedAt", "UpdatedAt",
}

// ExportProducts — каталог в xlsx (лист Products, строка заголовков + по строке на товар).
func (s *StoreService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for i := range products {
		p := &products[i]
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.CategoryName)
		row.AddCell().SetValue(p.Price)
		if p.OriginalPrice != nil {
			row.AddCell().SetValue(*p.OriginalPrice)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(string(p.StockStatus()))
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.ReviewCount)
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(strings.Join(p.Specs, "; "))
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(exportTimeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	s.log.Infof(ctx, "products exported rows=%d", len(products))
	return nil
}
