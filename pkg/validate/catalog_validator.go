package validate

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
)

// Проверка, что CatalogValidator удовлетворяет интерфейсу CatalogValidator.
var _ ports.CatalogValidator = (*CatalogValidator)(nil)

// ErrInvalidInput — базовая (sentinel error) ошибка валидации.
var ErrInvalidInput = errors.New("invalid input")

// minPhoneDigits — минимальная длина телефона после нормализации.
const minPhoneDigits = 7

// CatalogValidator — проверка данных админки и клиентских форм.
// Возвращает ErrInvalidInput (с обёрнутой причиной) при любой проблеме.
type CatalogValidator struct{}

func NewCatalogValidator() *CatalogValidator { return &CatalogValidator{} }

// ValidateProduct — проверяет товар перед созданием/обновлением.
func (v *CatalogValidator) ValidateProduct(_ context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("%w: товар не может быть nil", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name обязателен", ErrInvalidInput)
	}
	if p.CategoryID == "" {
		return fmt.Errorf("%w: category_id обязателен", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price должен быть неотрицательным", ErrInvalidInput)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		return fmt.Errorf("%w: original_price должен быть неотрицательным", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock должен быть неотрицательным", ErrInvalidInput)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("%w: rating вне диапазона 0..5", ErrInvalidInput)
	}
	if p.ReviewCount < 0 {
		return fmt.Errorf("%w: review_count должен быть неотрицательным", ErrInvalidInput)
	}
	for i, s := range p.Specs {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: specs[%d] пустая строка", ErrInvalidInput, i)
		}
	}
	return nil
}

func (v *CatalogValidator) ValidateCategory(_ context.Context, c *domain.Category) error {
	if c == nil {
		return fmt.Errorf("%w: категория не может быть nil", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name обязателен", ErrInvalidInput)
	}
	return nil
}

// ValidateRepairIntake — форма приёмки: контакты и описание устройства.
func (v *CatalogValidator) ValidateRepairIntake(ctx context.Context, in *domain.RepairIntake) error {
	if in == nil {
		return fmt.Errorf("%w: заявка не может быть nil", ErrInvalidInput)
	}
	if err := v.ValidateCustomer(ctx, &in.Customer); err != nil {
		return err
	}
	required := []struct{ field, value string }{
		{"device_brand", in.DeviceBrand},
		{"device_model", in.DeviceModel},
		{"device_type", in.DeviceType},
		{"issue", in.Issue},
		{"service_type", in.ServiceType},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s обязателен", ErrInvalidInput, r.field)
		}
	}
	return nil
}

// ValidateCustomer — имя, телефон и (необязательный) email.
func (v *CatalogValidator) ValidateCustomer(_ context.Context, c *domain.CustomerInput) error {
	if c == nil {
		return fmt.Errorf("%w: покупатель не может быть nil", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer.name обязателен", ErrInvalidInput)
	}
	if digits := strings.TrimPrefix(domain.NormalizePhone(c.Phone), "+"); len(digits) < minPhoneDigits {
		return fmt.Errorf("%w: customer.phone некорректен", ErrInvalidInput)
	}
	if c.Email != nil && *c.Email != "" {
		if _, err := mail.ParseAddress(*c.Email); err != nil {
			return fmt.Errorf("%w: customer.email некорректен", ErrInvalidInput)
		}
	}
	return nil
}
