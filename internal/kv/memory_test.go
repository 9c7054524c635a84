package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/techstore/internal/kv"
	"github.com/Gunvolt24/techstore/pkg/clock"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory(nil)

	if _, ok, err := m.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	src := []byte(`{"a":1}`)
	if err := m.Set(ctx, "k", src, 0); err != nil {
		t.Fatal(err)
	}
	src[0] = 'X' // хранилище держит свою копию

	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(got) != `{"a":1}` {
		t.Fatalf("got %q ok=%v err=%v", got, ok, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after Delete")
	}
	// повторное удаление — не ошибка
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	m := kv.NewMemory(clk)

	_ = m.Set(ctx, "session", []byte("x"), time.Minute)
	clk.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "session"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	clk.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "session"); ok {
		t.Fatalf("expected miss at expiry")
	}
}

func TestKeys(t *testing.T) {
	if got := kv.CartKey("c1"); got != "techstore:cart:v1:c1" {
		t.Fatalf("CartKey=%q", got)
	}
	if got := kv.PCBuildKey("c1"); got != "techstore:pcbuild:v1:c1" {
		t.Fatalf("PCBuildKey=%q", got)
	}
	if got := kv.SessionKey("j"); got != "techstore:session:v1:j" {
		t.Fatalf("SessionKey=%q", got)
	}
}
