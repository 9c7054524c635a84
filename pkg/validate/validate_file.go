package validate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Gunvolt24/techstore/internal/ports"
)

type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// Summary — итог проверки каталога.
type Summary struct {
	Valid   int
	Invalid int
}

func (s Summary) String() string { return fmt.Sprintf("%d valid / %d invalid", s.Valid, s.Invalid) }

// ValidateFile — ValidateReader поверх файла; при FormatAuto формат берётся из расширения,
// а для прочих расширений определяется по содержимому.
func ValidateFile(
	ctx context.Context,
	validator ports.CatalogValidator,
	filePath string,
	format InputFormat,
	ow io.Writer,
	sink ProductSink,
) (Summary, error) {
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl", ".ndjson":
			format = FormatJSONL
		case ".json":
			format = FormatJSON
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Summary{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, format, ow, sink)
}

// ValidateReader — валидные товары пишутся в ow и передаются в sink (sink может быть nil).
// JSON-массив разбирается целиком, JSONL — построчно.
func ValidateReader(
	ctx context.Context,
	validator ports.CatalogValidator,
	r io.Reader,
	format InputFormat,
	ow io.Writer,
	sink ProductSink,
) (Summary, error) {
	br := bufio.NewReader(r)
	if format == FormatAuto {
		format = sniffFormat(br)
	}

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(br)
		if err != nil {
			return Summary{}, fmt.Errorf("read input: %w", err)
		}
		products, invalid, err := ProductsFromJSONArray(ctx, validator, raw)
		if err != nil {
			return Summary{}, err
		}
		sum := Summary{Invalid: invalid}
		for _, p := range products {
			if err := emit(ctx, p, ow, sink); err != nil {
				return sum, err
			}
			sum.Valid++
		}
		return sum, nil

	case FormatJSONL:
		res, err := ValidateJSONLStream(ctx, validator, br, ow, sink)
		return Summary{Valid: res.ValidLinesCount, Invalid: res.InvalidLinesCount}, err

	default:
		return Summary{}, fmt.Errorf("unsupported format: %s", format)
	}
}

// sniffFormat — первый непробельный символ '[' означает JSON-массив, всё остальное — JSONL.
func sniffFormat(br *bufio.Reader) InputFormat {
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			return FormatJSONL
		}
		if unicode.IsSpace(r) || r == '\uFEFF' {
			continue
		}
		_ = br.UnreadRune()
		if r == '[' {
			return FormatJSON
		}
		return FormatJSONL
	}
}
