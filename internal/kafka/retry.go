package kafka

import (
	"context"
	"math/rand"
	"time"
)

// retryPolicy — экспоненциальный backoff с equal-jitter между initial и max.
type retryPolicy struct {
	initial time.Duration
	max     time.Duration
	rnd     *rand.Rand
}

func newRetryPolicy(initial, max time.Duration) retryPolicy {
	return retryPolicy{initial: initial, max: max, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p retryPolicy) next(current time.Duration) time.Duration {
	if current *= 2; current > p.max {
		return p.max
	}
	return current
}

// jitter — половина задержки фиксирована, вторая половина случайная.
func (p retryPolicy) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(p.rnd.Int63n(int64(d-half)+1))
}

// pause — пауза после неудачной обработки: короткая, чтобы не долбить хранилище повторными refresh.
func (p retryPolicy) pause() time.Duration {
	return p.jitter(min(p.initial, 500*time.Millisecond))
}

// sleep — false, если контекст отменён раньше.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
