package postgres

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ ports.ProductRepository = (*ProductRepository)(nil)
	_ ports.SitemapSource     = (*ProductRepository)(nil)
)

// ProductRepository — товары на Postgres; category_name подтягивается join'ом.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			p.id, p.name, COALESCE(p.category_id, ''), COALESCE(c.name, ''),
			p.price::float8, p.original_price::float8, p.stock, p.rating::float8, p.review_count,
			p.image, p.specs, p.featured, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.CategoryID, &p.CategoryName,
			&p.Price, &p.OriginalPrice, &p.Stock, &p.Rating, &p.ReviewCount,
			&p.Image, &p.Specs, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return products, nil
}

// CreateProduct — пустой id генерирует база.
func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	out := product.Clone()
	if out.Specs == nil {
		out.Specs = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (
			id, name, category_id, price, original_price, stock, rating, review_count, image, specs, featured
		) VALUES (
			COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING id, created_at, updated_at
	`,
		out.ID, out.Name, out.CategoryID, out.Price, out.OriginalPrice, out.Stock, out.Rating, out.ReviewCount,
		out.Image, out.Specs, out.Featured,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, mapError("insert product", err)
	}
	return &out, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	specs := product.Specs
	if specs == nil {
		specs = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET
			name = $2, category_id = NULLIF($3, ''), price = $4, original_price = $5, stock = $6,
			rating = $7, review_count = $8, image = $9, specs = $10, featured = $11, updated_at = now()
		WHERE id = $1
	`,
		product.ID, product.Name, product.CategoryID, product.Price, product.OriginalPrice, product.Stock,
		product.Rating, product.ReviewCount, product.Image, specs, product.Featured,
	)
	if err != nil {
		return mapError("update product", err)
	}
	return expectOne(tag, "product", product.ID)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	return expectOne(tag, "product", id)
}

// ListSitemapProducts — id и дата изменения всех товаров для sitemap.
func (r *ProductRepository) ListSitemapProducts(ctx context.Context) ([]domain.SitemapProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, updated_at FROM products ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select sitemap products: %w", err)
	}
	defer rows.Close()

	var out []domain.SitemapProduct
	for rows.Next() {
		var p domain.SitemapProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sitemap rows: %w", err)
	}
	return out, nil
}
