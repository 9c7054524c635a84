package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/kv"
	"github.com/Gunvolt24/techstore/internal/ports"
)

// Store — сборки ПК клиентов в KV-хранилище.
type Store struct {
	kv  ports.KVStore
	log ports.Logger
	ttl time.Duration
}

func NewStore(store ports.KVStore, log ports.Logger, ttl time.Duration) *Store {
	return &Store{kv: store, log: log, ttl: ttl}
}

// Session — сборка одного клиента, загруженная на время запроса.
type Session struct {
	store *Store
	key   string
	build domain.PCBuild
}

// Load — отсутствующая или испорченная запись даёт пустую сборку.
func (s *Store) Load(ctx context.Context, clientID string) (*Session, error) {
	sess := &Session{store: s, key: kv.PCBuildKey(clientID)}

	raw, ok, err := s.kv.Get(ctx, sess.key)
	if err != nil {
		return nil, fmt.Errorf("load pc build: %w", err)
	}
	if !ok {
		return sess, nil
	}
	if err := json.Unmarshal(raw, &sess.build); err != nil {
		s.log.Warnf(ctx, "pc build %s is unparsable, starting empty err=%v", sess.key, err)
		sess.build = domain.PCBuild{}
	}
	return sess, nil
}

// Build — копия текущей сборки.
func (s *Session) Build() domain.PCBuild {
	var out domain.PCBuild
	for _, slot := range domain.Slots {
		out.Set(slot, s.build.Get(slot))
	}
	return out
}

// Set — положить компонент в слот (заменяя прежний).
func (s *Session) Set(ctx context.Context, slot domain.Slot, c domain.PCComponent) error {
	if !s.build.Set(slot, &c) {
		return fmt.Errorf("unknown slot %q", slot)
	}
	return s.save(ctx)
}

// Remove — очистить слот; пустой слот ничего не пишет.
func (s *Session) Remove(ctx context.Context, slot domain.Slot) error {
	if !slot.Valid() {
		return fmt.Errorf("unknown slot %q", slot)
	}
	if s.build.Get(slot) == nil {
		return nil
	}
	s.build.Set(slot, nil)
	return s.save(ctx)
}

func (s *Session) Clear(ctx context.Context) error {
	if s.build.Empty() {
		return nil
	}
	s.build = domain.PCBuild{}
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	raw, err := json.Marshal(&s.build)
	if err != nil {
		return fmt.Errorf("marshal pc build: %w", err)
	}
	if err := s.store.kv.Set(ctx, s.key, raw, s.store.ttl); err != nil {
		return fmt.Errorf("save pc build: %w", err)
	}
	return nil
}
