package memory

import (
	"sync"
	"time"
)

// Collection — снимок коллекции из удалённого хранилища и время его получения.
//
// Запись считается актуальной, только если:
//   - время получения выставлено;
//   - с момента получения прошло меньше окна свежести;
//   - коллекция не пуста (пустую всегда перезапрашиваем).
//
// Мьютекс защищает только память; сетевые вызовы выполняются снаружи.
type Collection[T any] struct {
	window time.Duration
	clone  func(T) T

	mu        sync.RWMutex
	items     []T
	fetchedAt time.Time
}

// NewCollection — clone может быть nil, тогда элементы копируются по значению.
func NewCollection[T any](window time.Duration, clone func(T) T) *Collection[T] {
	return &Collection[T]{window: window, clone: clone}
}

// Fresh — можно ли отдать коллекцию без обращения к хранилищу.
func (c *Collection[T]) Fresh(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || len(c.items) == 0 {
		return false
	}
	return now.Sub(c.fetchedAt) < c.window
}

// Snapshot — копия текущих элементов; вызывающий может её менять.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyItems(c.items)
}

// Replace — целиком заменяет элементы. Время получения не уменьшается:
// при гонке двух refresh остаётся более позднее.
func (c *Collection[T]) Replace(items []T, at time.Time) {
	cp := c.copyItems(items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cp
	if at.After(c.fetchedAt) {
		c.fetchedAt = at
	}
}

func (c *Collection[T]) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) copyItems(items []T) []T {
	out := make([]T, len(items))
	if c.clone == nil {
		copy(out, items)
		return out
	}
	for i := range items {
		out[i] = c.clone(items[i])
	}
	return out
}
