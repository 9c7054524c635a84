package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// ProductSort — порядок выдачи каталога.
type ProductSort string

const (
	SortDefault   ProductSort = ""
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
	SortNewest    ProductSort = "newest"
	SortName      ProductSort = "name"
)

// ProductQuery — фильтры витрины. Пустые поля не фильтруют.
type ProductQuery struct {
	Category string // id или имя категории
	Search   string // подстрока в названии, категории или характеристиках
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	Featured bool
	Sort     ProductSort
	Limit    int // 0 — без ограничения
	Offset   int
}

// ProductPage — страница выдачи; Total — число товаров до пагинации.
type ProductPage struct {
	Items []domain.Product `json:"items"`
	Total int              `json:"total"`
}

// Product — товар по id из кэша.
func (s *StoreService) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

// SearchProducts — фильтрация и сортировка каталога в памяти.
func (s *StoreService) SearchProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return ProductPage{}, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := products[:0]
	for _, p := range products {
		if matchProduct(&p, &q, search) {
			filtered = append(filtered, p)
		}
	}
	sortProducts(filtered, q.Sort)

	page := ProductPage{Total: len(filtered)}
	start := q.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	page.Items = filtered[start:end]
	return page, nil
}

// FeaturedProducts — до n отмеченных товаров с лучшим рейтингом.
func (s *StoreService) FeaturedProducts(ctx context.Context, n int) ([]domain.Product, error) {
	page, err := s.SearchProducts(ctx, ProductQuery{Featured: true, Sort: SortRating, Limit: n})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func matchProduct(p *domain.Product, q *ProductQuery, search string) bool {
	if q.Category != "" && p.CategoryID != q.Category && !strings.EqualFold(p.CategoryName, q.Category) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.InStock && p.Stock <= 0 {
		return false
	}
	if q.Featured && !p.Featured {
		return false
	}
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.CategoryName), search) {
		return true
	}
	for _, spec := range p.Specs {
		if strings.Contains(strings.ToLower(spec), search) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, by ProductSort) {
	var less func(a, b *domain.Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b *domain.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *domain.Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b *domain.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b *domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortName:
		less = func(a, b *domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return // порядок хранилища
	}
	sort.SliceStable(products, func(i, j int) bool { return less(&products[i], &products[j]) })
}
