package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.ChangePublisher = (*Publisher)(nil)

// writer — контракт над kafka.Writer для подмены в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Publisher — отправка событий изменений; ключ сообщения — имя мутации.
type Publisher struct {
	writer    writer
	topic     string
	closeOnce sync.Once
}

func NewPublisher(cfg *PublisherConfig) *Publisher {
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			// мутация ждёт публикации, поэтому батч не копим
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: wt,
		},
		topic: cfg.Topic,
	}
}

func (p *Publisher) Publish(ctx context.Context, event *domain.ChangeEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("marshal change event: %w", err)
	}
	msg := kafka.Message{Key: []byte(event.Mutation), Value: raw, Time: event.At}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("write change event: %w", err)
	}
	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "ok").Inc()
	return nil
}

func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
