package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// ApplyChange — обработка события изменений от другого экземпляра: принудительное
// обновление перечисленных коллекций. Неразбираемое событие → ErrInvalidEvent
// (потребитель коммитит и пропускает), ошибка хранилища возвращается как есть (повтор).
func (s *StoreService) ApplyChange(ctx context.Context, raw []byte) error {
	var ev domain.ChangeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		s.log.Warnf(ctx, "invalid change event err=%v", err)
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if len(ev.Collections) == 0 {
		return fmt.Errorf("%w: no collections", ErrInvalidEvent)
	}
	cols := make([]Collection, 0, len(ev.Collections))
	for _, name := range ev.Collections {
		c, err := ParseCollection(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		cols = append(cols, c)
	}

	if ev.Origin != "" && ev.Origin == s.cfg.InstanceID {
		return nil
	}

	for _, c := range cols {
		if err := s.RefreshCollection(ctx, c, true); err != nil {
			return fmt.Errorf("apply %s: %w", ev.Mutation, err)
		}
	}
	s.log.Infof(ctx, "change applied mutation=%s origin=%s collections=%v", ev.Mutation, ev.Origin, ev.Collections)
	return nil
}
