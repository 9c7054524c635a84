package ports

import "context"

// MessageConsumer — фоновый потребитель событий изменений каталога.
// Run блокируется до отмены контекста или фатальной ошибки.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
