package ports

import (
	"context"
	"time"
)

// KVStore — локальное key-value хранилище (корзина, сборка ПК, сессии).
// Требования к реализации: потокобезопасность; значение перезаписывается целиком.
type KVStore interface {
	// Get — (value, true, nil) при наличии ключа, (nil, false, nil) при отсутствии.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set — ttl <= 0 означает «без срока».
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
