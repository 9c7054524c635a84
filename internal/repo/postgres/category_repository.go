package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository — категории; product_count считается запросом.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.icon, COUNT(p.id)::int, c.created_at
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.ProductCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories rows: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	out := category.Clone()
	out.ProductCount = 0
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, icon)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3)
		RETURNING id, created_at
	`, out.ID, out.Name, out.Icon).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, mapError("insert category", err)
	}
	return &out, nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2, icon = $3 WHERE id = $1`,
		category.ID, category.Name, category.Icon)
	if err != nil {
		return mapError("update category", err)
	}
	return expectOne(tag, "category", category.ID)
}

// DeleteCategory — товары категории остаются, category_id обнуляется (ON DELETE SET NULL).
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	return expectOne(tag, "category", id)
}
