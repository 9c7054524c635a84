package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository — учётные записи и таблица администраторов.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// UserByEmail — (nil, nil), если пользователя нет.
func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash FROM users WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email)).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("select admin: %w", err)
	}
	return ok, nil
}

// CreateAdmin — завести пользователя (или обновить пароль существующего) и выдать права администратора.
func (r *UserRepository) CreateAdmin(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, transaction)

	u := domain.User{Email: strings.ToLower(strings.TrimSpace(email)), PasswordHash: passwordHash}
	if err := transaction.QueryRow(ctx, `
		INSERT INTO users (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id
	`, u.Email, u.PasswordHash).Scan(&u.ID); err != nil {
		return nil, mapError("upsert user", err)
	}
	if _, err := transaction.Exec(ctx, `
		INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, u.ID); err != nil {
		return nil, mapError("insert admin", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &u, nil
}
