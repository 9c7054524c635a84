package usecase

import (
	"errors"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/pkg/validate"
)

var (
	// ErrEmptyCart — оформление пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidEvent — событие изменений не разобрано; повторная обработка бессмысленна.
	ErrInvalidEvent = errors.New("invalid change event")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", validate.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
