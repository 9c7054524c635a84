package domain

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrNotFound — запись отсутствует в удалённом хранилище (или в кэше).
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock — остатка не хватает для оформления заказа.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict — нарушение уникальности или ссылочной целостности в хранилище.
	ErrConflict = errors.New("conflict")
)

// LowStockThreshold — граница бейджа «мало на складе».
const LowStockThreshold = 5

// StockStatus — производный статус наличия (только для отображения).
type StockStatus string

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low_stock"
	StockIn  StockStatus = "in_stock"
)

// Product — товар каталога.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"` // только чтение (join)
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Image         string    `json:"image"`
	Specs         []string  `json:"specs"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OnSale — есть ли у товара старая цена выше текущей.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// DiscountPercent — скидка в целых процентах (0, если скидки нет).
func (p *Product) DiscountPercent() int {
	if !p.OnSale() || *p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

// StockStatus — бейдж наличия по остатку.
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock <= LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// Clone — глубокая копия (specs и original_price не разделяются).
func (p Product) Clone() Product {
	if p.Specs != nil {
		p.Specs = append([]string(nil), p.Specs...)
	}
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	return p
}

// SitemapProduct — минимальный набор полей для генерации sitemap.
type SitemapProduct struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// RoundMoney — округление до копеек.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
