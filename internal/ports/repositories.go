package ports

import (
	"context"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// ProductRepository — товары в удалённом хранилище.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// UpdateProduct — полная замена редактируемых полей; domain.ErrNotFound, если записи нет.
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// CategoryRepository — категории; product_count считает хранилище.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// OrderRepository — заказы.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// CreateOrder — заказ, позиции и списание остатков в одной транзакции.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// RepairRepository — заявки на ремонт.
type RepairRepository interface {
	ListRepairRequests(ctx context.Context) ([]domain.RepairRequest, error)
	CreateRepairRequest(ctx context.Context, req *domain.RepairRequest) (*domain.RepairRequest, error)
	UpdateRepairStatus(ctx context.Context, id string, status domain.RepairStatus) error
	UpdateRepairRequest(ctx context.Context, id string, upd *domain.RepairUpdate) error
	DeleteRepairRequest(ctx context.Context, id string) error
}

// CustomerRepository — покупатели.
type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	// UpsertCustomerByPhone — найти по нормализованному телефону или создать.
	UpsertCustomerByPhone(ctx context.Context, in *domain.CustomerInput) (*domain.Customer, error)
}

// UserRepository — учётные записи и признак администратора.
type UserRepository interface {
	// UserByEmail — (nil, nil), если пользователя нет.
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// SitemapSource — источник товаров для sitemap.
type SitemapSource interface {
	ListSitemapProducts(ctx context.Context) ([]domain.SitemapProduct, error)
}
