package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/kv"
	"github.com/Gunvolt24/techstore/internal/ports"
)

// Store — корзины клиентов в KV-хранилище (ключ на клиента, значение — JSON-массив позиций).
type Store struct {
	kv  ports.KVStore
	log ports.Logger
	ttl time.Duration
}

// NewStore — ttl <= 0: корзина хранится без срока.
func NewStore(store ports.KVStore, log ports.Logger, ttl time.Duration) *Store {
	return &Store{kv: store, log: log, ttl: ttl}
}

// Cart — корзина одного клиента. Каждое изменение целиком записывается обратно;
// операции, которые ничего не меняют, ничего не пишут. Не потокобезопасна:
// создаётся на запрос.
type Cart struct {
	store *Store
	key   string
	items []domain.CartItem
}

// Load — восстановить корзину. Отсутствующий или испорченный ключ — пустая корзина
// (испорченный логируется); ошибки транспорта возвращаются.
func (s *Store) Load(ctx context.Context, clientID string) (*Cart, error) {
	c := &Cart{store: s, key: kv.CartKey(clientID)}

	raw, ok, err := s.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return c, nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warnf(ctx, "cart %s is unparsable, starting empty err=%v", c.key, err)
		return c, nil
	}
	for _, it := range items {
		if it.Quantity >= 1 && it.Product.ID != "" {
			c.items = append(c.items, it)
		}
	}
	return c, nil
}

// Items — копия позиций в порядке добавления.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	for i, it := range c.items {
		out[i] = domain.CartItem{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	return out
}

// Add — +1 к существующей позиции или новая позиция с количеством 1.
func (c *Cart) Add(ctx context.Context, product domain.Product) error {
	if i := c.index(product.ID); i >= 0 {
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, domain.CartItem{Product: product.Clone(), Quantity: 1})
	}
	return c.save(ctx)
}

func (c *Cart) Remove(ctx context.Context, productID string) error {
	i := c.index(productID)
	if i < 0 {
		return nil
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.save(ctx)
}

// UpdateQuantity — quantity <= 0 удаляет позицию; для отсутствующей позиции ничего не делает.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}
	i := c.index(productID)
	if i < 0 || c.items[i].Quantity == quantity {
		return nil
	}
	c.items[i].Quantity = quantity
	return c.save(ctx)
}

func (c *Cart) Clear(ctx context.Context) error {
	if len(c.items) == 0 {
		return nil
	}
	c.items = nil
	return c.save(ctx)
}

// Total — сумма price × quantity; считается при каждом чтении.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return domain.RoundMoney(total)
}

// Count — сумма количеств.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) save(ctx context.Context) error {
	items := c.items
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := c.store.kv.Set(ctx, c.key, raw, c.store.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
