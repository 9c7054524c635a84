package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/metrics"
)

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// LRU — потокобезопасный LRU-кэш с TTL. ttl <= 0 — записи не истекают.
// В sliding-режиме срок продлевается при попадании, в фиксированном отсчитывается от Set.
type LRU[V any] struct {
	name     string
	capacity int
	ttl      time.Duration
	sliding  bool
	clock    ports.Clock

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// NewLRU — кэш со скользящим TTL: запись живёт, пока к ней обращаются.
// name попадает в label метрик.
func NewLRU[V any](name string, capacity int, ttl time.Duration, clk ports.Clock) *LRU[V] {
	return newLRU[V](name, capacity, ttl, true, clk)
}

// NewFixedLRU — кэш с фиксированным сроком от момента Set. Нужен там, где
// устаревшее значение обязано уйти через ttl даже при постоянных чтениях.
func NewFixedLRU[V any](name string, capacity int, ttl time.Duration, clk ports.Clock) *LRU[V] {
	return newLRU[V](name, capacity, ttl, false, clk)
}

func newLRU[V any](name string, capacity int, ttl time.Duration, sliding bool, clk ports.Clock) *LRU[V] {
	if capacity <= 0 {
		capacity = 1
	}
	if clk == nil {
		clk = clock.NewReal()
	}
	return &LRU[V]{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		sliding:  sliding,
		clock:    clk,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.index[key]
	if !ok {
		metrics.CacheOps.WithLabelValues(c.name, "miss").Inc()
		return zero, false
	}
	ent := elem.Value.(*lruEntry[V])
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues(c.name, "expired").Inc()
		c.removeElement(elem)
		c.reportSize()
		return zero, false
	}
	c.ll.MoveToFront(elem)
	if c.sliding && c.ttl > 0 {
		ent.expiresAt = c.expiryFrom(now)
	}

	metrics.CacheOps.WithLabelValues(c.name, "hit").Inc()
	return ent.value, true
}

func (c *LRU[V]) Set(key string, value V) {
	if key == "" {
		return
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*lruEntry[V])
		ent.value = value
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return
	}

	c.pruneExpiredFromBack(now)

	c.index[key] = c.ll.PushFront(&lruEntry[V]{
		key:       key,
		value:     value,
		expiresAt: c.expiryFrom(now),
	})
	c.reportSize()

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
}

// Delete — убрать ключ (например, после отзыва прав администратора).
func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		c.removeElement(elem)
		c.reportSize()
	}
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// ------вспомогательные функции------

func (c *LRU[V]) reportSize() {
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.index)))
}

func (c *LRU[V]) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues(c.name, "evicted").Inc()
		c.reportSize()
	}
}

func (c *LRU[V]) removeElement(elem *list.Element) {
	ent := elem.Value.(*lruEntry[V])
	delete(c.index, ent.key)
	c.ll.Remove(elem)
}

func (c *LRU[V]) isExpired(ent *lruEntry[V], now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *LRU[V]) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

func (c *LRU[V]) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		if !now.After(back.Value.(*lruEntry[V]).expiresAt) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues(c.name, "expired").Inc()
		c.reportSize()
	}
}
