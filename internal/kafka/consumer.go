package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/internal/usecase"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — то, что нужно от kafka.Reader; в тестах подменяется моком.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// changeApplier — разбирает событие и принудительно обновляет перечисленные коллекции.
type changeApplier interface {
	ApplyChange(ctx context.Context, raw []byte) error
}

// Consumer — слушатель шины изменений: события от других экземпляров витрины
// сбрасывают окно свежести локального кэша.
type Consumer struct {
	reader         reader
	service        changeApplier
	log            ports.Logger
	processTimeout time.Duration
	retry          retryPolicy
	closeOnce      sync.Once
}

func NewConsumer(cfg *ConsumerConfig, service changeApplier, log ports.Logger) *Consumer {
	c := cfg.withDefaults()
	return &Consumer{
		reader:         kafka.NewReader(c.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: c.ProcessTimeout,
		retry:          newRetryPolicy(c.RetryInitial, c.RetryMax),
	}
}

// Run — цикл до отмены контекста. Гарантия at-least-once:
// применённое или невалидное событие коммитится, ошибка refresh оставляет оффсет на месте.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "change consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	delay := c.retry.initial
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := c.retry.jitter(delay)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, wait)
			if !sleep(ctx, wait) {
				return ctx.Err()
			}
			delay = c.retry.next(delay)
			continue
		}
		delay = c.retry.initial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if !c.process(ctx, rc.Topic, &msg) {
			_ = sleep(ctx, c.retry.pause())
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
		}
	}
}

// process — true, если оффсет можно коммитить.
func (c *Consumer) process(ctx context.Context, topic string, msg *kafka.Message) bool {
	applyCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.ApplyChange(applyCtx, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, usecase.ErrInvalidEvent):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid change event offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "apply change failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// Close — закрывает reader один раз; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

// NoopConsumer — Kafka выключена: Run просто ждёт отмены контекста.
type NoopConsumer struct{}

var _ ports.MessageConsumer = NoopConsumer{}

func (NoopConsumer) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (NoopConsumer) Close() error { return nil }
