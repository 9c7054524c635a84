package kv

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/clock"
)

var _ ports.KVStore = (*Memory)(nil)

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero — без срока
}

// Memory — KV в памяти процесса (один экземпляр, тесты, локальный запуск без Redis).
type Memory struct {
	clock ports.Clock

	mu   sync.RWMutex
	data map[string]memEntry
}

func NewMemory(clk ports.Clock) *Memory {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Memory{clock: clk, data: make(map[string]memEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := m.clock.Now()

	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		m.mu.Lock()
		// запись могли перезаписать между блокировками
		if cur, ok := m.data[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.clock.Now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
