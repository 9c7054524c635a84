package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techstore/internal/domain"
)

// CheckoutConfig — цены доставки и налог.
type CheckoutConfig struct {
	ShippingFlat     float64
	FreeShippingFrom float64 // 0 — бесплатной доставки нет
	TaxRate          float64
}

// Quote — расчёт суммы заказа.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote — доставка бесплатна от порога, налог считается от subtotal; всё округляется до копеек.
func (c CheckoutConfig) Quote(items []domain.CartItem) Quote {
	var subtotal float64
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	subtotal = domain.RoundMoney(subtotal)

	shipping := c.ShippingFlat
	if subtotal == 0 || (c.FreeShippingFrom > 0 && subtotal >= c.FreeShippingFrom) {
		shipping = 0
	}
	tax := domain.RoundMoney(subtotal * c.TaxRate)
	return Quote{
		Subtotal: subtotal,
		Shipping: domain.RoundMoney(shipping),
		Tax:      tax,
		Total:    domain.RoundMoney(subtotal + shipping + tax),
	}
}

// Quote — расчёт по настройкам сервиса (для предпросмотра корзины).
func (s *StoreService) Quote(items []domain.CartItem) Quote {
	return s.cfg.Checkout.Quote(items)
}

// PlaceOrder — оформление корзины: покупатель по телефону, заказ с позициями и
// списанием остатков одной транзакцией на стороне хранилища.
func (s *StoreService) PlaceOrder(ctx context.Context, items []domain.CartItem, customer domain.CustomerInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity < 1 || it.Product.ID == "" {
			return nil, invalidInput("cart item %q has invalid quantity %d", it.Product.ID, it.Quantity)
		}
	}
	if err := s.validator.ValidateCustomer(ctx, &customer); err != nil {
		s.log.Warnf(ctx, "checkout customer validation failed err=%v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cust, err := s.repos.Customers.UpsertCustomerByPhone(ctx, &customer)
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationPlaceOrder, fmt.Errorf("upsert customer: %w", err))
	}

	quote := s.cfg.Checkout.Quote(items)
	now := s.clock.Now()
	order := &domain.Order{
		OrderNumber:   fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), randomCode()),
		CustomerID:    cust.ID,
		Items:         make([]domain.OrderItem, 0, len(items)),
		Subtotal:      quote.Subtotal,
		ShippingCost:  quote.Shipping,
		Tax:           quote.Tax,
		Total:         quote.Total,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		})
	}

	created, err := s.repos.Orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, s.mutationFailed(ctx, MutationPlaceOrder, err)
	}
	s.log.Infof(ctx, "order placed number=%s items=%d total=%.2f", created.OrderNumber, len(created.Items), created.Total)
	return created, s.afterMutation(ctx, MutationPlaceOrder)
}
