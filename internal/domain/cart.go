package domain

// CartItem — позиция корзины: полный снимок товара и количество (>= 1).
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal — цена позиции.
func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}
