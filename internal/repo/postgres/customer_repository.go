package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, address, created_at
		FROM customers
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customers rows: %w", err)
	}
	return out, nil
}

// UpsertCustomerByPhone — по нормализованному телефону; пустые email/address не затирают старые.
func (r *CustomerRepository) UpsertCustomerByPhone(ctx context.Context, in *domain.CustomerInput) (*domain.Customer, error) {
	phone := domain.NormalizePhone(in.Phone)
	var email *string
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		v := strings.TrimSpace(*in.Email)
		email = &v
	}

	var c domain.Customer
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone) DO UPDATE SET
			name    = EXCLUDED.name,
			email   = COALESCE(EXCLUDED.email, customers.email),
			address = CASE WHEN EXCLUDED.address <> '' THEN EXCLUDED.address ELSE customers.address END
		RETURNING id, name, phone, email, address, created_at
	`, strings.TrimSpace(in.Name), phone, email, strings.TrimSpace(in.Address)).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt)
	if err != nil {
		return nil, mapError("upsert customer", err)
	}
	return &c, nil
}
