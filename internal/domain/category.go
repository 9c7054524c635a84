package domain

import "time"

// Category — категория каталога. ProductCount пересчитывается на стороне хранилища.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Icon         *string   `json:"icon,omitempty"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Clone — копия без общего указателя на icon.
func (c Category) Clone() Category {
	if c.Icon != nil {
		v := *c.Icon
		c.Icon = &v
	}
	return c
}
