package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
)

// ProductFromJSON — строгий разбор и валидация одного товара.
func ProductFromJSON(ctx context.Context, validator ports.CatalogValidator, raw []byte) (*domain.Product, error) {
	var product domain.Product
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&product); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	if err := validator.ValidateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductsFromJSONArray — валидирует JSON-массив товаров поэлементно.
// Невалидные элементы пропускаются и учитываются в счётчике.
func ProductsFromJSONArray(ctx context.Context, validator ports.CatalogValidator, raw []byte) ([]*domain.Product, int, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, 0, fmt.Errorf("invalid json array: %w", err)
	}
	valid := make([]*domain.Product, 0, len(elems))
	invalid := 0
	for _, el := range elems {
		p, err := ProductFromJSON(ctx, validator, el)
		if err != nil {
			invalid++
			continue
		}
		valid = append(valid, p)
	}
	return valid, invalid, nil
}
