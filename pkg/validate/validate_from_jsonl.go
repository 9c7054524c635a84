package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
}

// ProductSink — получатель валидных товаров (например, запись в хранилище). Может быть nil.
type ProductSink func(ctx context.Context, product *domain.Product) error

// ValidateJSONLStream — читает JSONL из reader'а, валидирует каждую строку, валидные пишет в writer
// (канонический JSON, одна строка на запись) и передаёт в sink.
// Пустые строки пропускаются. Ошибка sink прерывает обработку.
func ValidateJSONLStream(
	ctx context.Context,
	validator ports.CatalogValidator,
	ir io.Reader,
	ow io.Writer,
	sink ProductSink,
) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		product, err := ProductFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			// не возвращаем ошибку — просто пропускаем невалидную строку
			continue
		}
		if err := emit(ctx, product, ow, sink); err != nil {
			return res, err
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

func emit(ctx context.Context, product *domain.Product, ow io.Writer, sink ProductSink) error {
	marshal, _ := json.Marshal(product) // компактный JSON
	if _, err := ow.Write(marshal); err != nil {
		return fmt.Errorf("write valid line: %w", err)
	}
	if _, err := ow.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if sink == nil {
		return nil
	}
	if err := sink(ctx, product); err != nil {
		return fmt.Errorf("sink product %q: %w", product.Name, err)
	}
	return nil
}
