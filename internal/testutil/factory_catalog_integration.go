//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

func randDigits(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = '0' + b[i]%10
	}
	return string(b)
}

// MakeCategory — категория с уникальным именем.
func MakeCategory() domain.Category {
	return domain.Category{Name: "Category " + UniqSuffix()}
}

// MakeProduct — валидный товар; categoryID может быть пустым.
func MakeProduct(categoryID string, opts ...func(*domain.Product)) domain.Product {
	p := domain.Product{
		Name:        "Widget " + UniqSuffix(),
		CategoryID:  categoryID,
		Price:       199.99,
		Stock:       10,
		Rating:      4.5,
		ReviewCount: 12,
		Image:       "/img/widget.png",
		Specs:       []string{"Socket: AM5", "TDP: 105W"},
	}
	for _, fn := range opts {
		fn(&p)
	}
	return p
}

func WithStock(n int) func(*domain.Product) {
	return func(p *domain.Product) { p.Stock = n }
}

func WithOriginalPrice(v float64) func(*domain.Product) {
	return func(p *domain.Product) { p.OriginalPrice = &v }
}

// MakeCustomerInput — контакт с уникальным телефоном.
func MakeCustomerInput() domain.CustomerInput {
	return domain.CustomerInput{
		Name:    "John Smith",
		Phone:   fmt.Sprintf("+1 (555) %s", randDigits(7)),
		Address: "Main st 1",
	}
}
