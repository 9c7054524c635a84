package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/Gunvolt24/techstore/internal/domain"
)

func TestValidateJSONLStream_Mixed(t *testing.T) {
	ctx := context.Background()
	validator := NewCatalogValidator()

	line1 := oneLineJSON(minimalProductJSON("p-1", "cat", 10))
	line2 := oneLineJSON(minimalProductJSON("p-2", "", 10)) // без категории
	line3 := ""                                            // пустая строка — ок
	line4 := oneLineJSON(minimalProductJSON("p-3", "cat", 30))

	input := strings.Join([]string{line1, line2, line3, line4}, "\n")
	var out bytes.Buffer
	var sunk []string

	res, err := ValidateJSONLStream(ctx, validator, strings.NewReader(input), &out,
		func(_ context.Context, p *domain.Product) error {
			sunk = append(sunk, p.Name)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ValidLinesCount != 2 || res.InvalidLinesCount != 1 {
		t.Fatalf("unexpected counters: %+v", res)
	}

	outLines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(outLines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(outLines))
	}
	var p1 domain.Product
	if err := json.Unmarshal([]byte(outLines[0]), &p1); err != nil {
		t.Fatalf("unmarshal line1: %v", err)
	}
	if p1.Name != "p-1" {
		t.Fatalf("unexpected first product: %s", p1.Name)
	}
	if strings.Join(sunk, ",") != "p-1,p-3" {
		t.Fatalf("sink got %v", sunk)
	}
}

func TestValidateJSONLStream_SinkErrorStops(t *testing.T) {
	ctx := context.Background()
	validator := NewCatalogValidator()
	boom := errors.New("db down")

	input := oneLineJSON(minimalProductJSON("a", "c", 1)) + "\n" + oneLineJSON(minimalProductJSON("b", "c", 1))
	var out bytes.Buffer
	calls := 0
	res, err := ValidateJSONLStream(ctx, validator, strings.NewReader(input), &out,
		func(context.Context, *domain.Product) error {
			calls++
			return boom
		})
	if !errors.Is(err, boom) {
		t.Fatalf("want sink error, got %v", err)
	}
	if calls != 1 || res.ValidLinesCount != 0 {
		t.Fatalf("calls=%d res=%+v", calls, res)
	}
}

func TestValidateJSONLStream_LargeLine(t *testing.T) {
	ctx := context.Background()
	validator := NewCatalogValidator()

	bigName := strings.Repeat("X", 200_000) // > 64KB
	var out bytes.Buffer
	res, err := ValidateJSONLStream(ctx, validator,
		strings.NewReader(oneLineJSON(minimalProductJSON(bigName, "c", 1))+"\n"), &out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ValidLinesCount != 1 || res.InvalidLinesCount != 0 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if strings.Count(strings.TrimSpace(out.String()), "\n")+1 != 1 {
		t.Fatalf("expected 1 output line")
	}
}

// ------ функции-помощники ------

func oneLineJSON(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
