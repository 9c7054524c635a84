package ports

import (
	"context"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// ChangePublisher — публикация событий об изменении коллекций.
type ChangePublisher interface {
	Publish(ctx context.Context, event *domain.ChangeEvent) error
	Close() error
}
