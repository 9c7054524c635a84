package domain

import (
	"strings"
	"time"
)

// Customer — покупатель / владелец устройства в ремонте.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone — копия без общего указателя на email.
func (c Customer) Clone() Customer {
	c.Email = cloneString(c.Email)
	return c
}

// CustomerInput — контактные данные из формы (checkout, приёмка ремонта).
type CustomerInput struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Address string  `json:"address"`
}

// NormalizePhone — оставляет только цифры и ведущий «+».
// По нормализованному телефону ищется покупатель.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	b.Grow(len(phone))
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
