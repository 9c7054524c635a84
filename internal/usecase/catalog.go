package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// AddProduct — создать товар; после успеха обновляются товары и категории.
func (s *StoreService) AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.validator.ValidateProduct(ctx, product); err != nil {
		s.log.Warnf(ctx, "add product validation failed err=%v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	created, err := s.repos.Products.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationAddProduct, err)
	}
	s.log.Infof(ctx, "product created id=%s name=%q", created.ID, created.Name)
	return created, s.afterMutation(ctx, MutationAddProduct)
}

func (s *StoreService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.validator.ValidateProduct(ctx, product); err != nil {
		s.log.Warnf(ctx, "update product validation failed err=%v", err)
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := s.repos.Products.UpdateProduct(ctx, product); err != nil {
		return s.mutationFailed(ctx, MutationUpdateProduct, err)
	}
	return s.afterMutation(ctx, MutationUpdateProduct)
}

func (s *StoreService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repos.Products.DeleteProduct(ctx, id); err != nil {
		return s.mutationFailed(ctx, MutationDeleteProduct, err)
	}
	return s.afterMutation(ctx, MutationDeleteProduct)
}

// AddCategory — создать категорию; после успеха обновляются категории и товары.
func (s *StoreService) AddCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := s.validator.ValidateCategory(ctx, category); err != nil {
		s.log.Warnf(ctx, "add category validation failed err=%v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	created, err := s.repos.Categories.CreateCategory(ctx, category)
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationAddCategory, err)
	}
	return created, s.afterMutation(ctx, MutationAddCategory)
}

func (s *StoreService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.validator.ValidateCategory(ctx, category); err != nil {
		s.log.Warnf(ctx, "update category validation failed err=%v", err)
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := s.repos.Categories.UpdateCategory(ctx, category); err != nil {
		return s.mutationFailed(ctx, MutationUpdateCategory, err)
	}
	return s.afterMutation(ctx, MutationUpdateCategory)
}

func (s *StoreService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repos.Categories.DeleteCategory(ctx, id); err != nil {
		return s.mutationFailed(ctx, MutationDeleteCategory, err)
	}
	return s.afterMutation(ctx, MutationDeleteCategory)
}

// UpdateOrderStatus — переходы свободные, но статус должен быть из перечисления.
func (s *StoreService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return invalidInput("unknown order status %q", status)
	}
	if err := s.repos.Orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return s.mutationFailed(ctx, MutationUpdateOrderStatus, err)
	}
	s.log.Infof(ctx, "order status updated id=%s status=%s", id, status)
	return s.afterMutation(ctx, MutationUpdateOrderStatus)
}
