package ports

import (
	"context"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// CatalogValidator — проверка входных данных админки и форм до обращения к хранилищу.
type CatalogValidator interface {
	ValidateProduct(ctx context.Context, product *domain.Product) error
	ValidateCategory(ctx context.Context, category *domain.Category) error
	ValidateRepairIntake(ctx context.Context, intake *domain.RepairIntake) error
	ValidateCustomer(ctx context.Context, customer *domain.CustomerInput) error
}
