package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Routing keys on the video exchange.
const (
	RoutingKeyAnalysis = "video.analysis"
	RoutingKeyStatus   = "video.analysis.status"
)

const maxBackoff = 60 * time.Second

// MessageHandler processes one analysis request body. A non-nil error
// requeues the delivery after a backoff pause.
type MessageHandler func(ctx context.Context, body []byte) error

// ConsumerConfig describes the analysis queue topology. The consumer
// declares everything it touches so workers can start against a fresh
// broker.
type ConsumerConfig struct {
	URL         string
	Queue       string
	Exchange    string
	DLQ         string
	StatusQueue string
	Prefetch    int
	WorkerCount int
	BaseDelayMs int
}

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     string
	workers   int
	baseDelay time.Duration
	handler   MessageHandler
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &Consumer{
		conn:      conn,
		channel:   ch,
		queue:     cfg.Queue,
		workers:   cfg.WorkerCount,
		baseDelay: time.Duration(cfg.BaseDelayMs) * time.Millisecond,
		handler:   handler,
		logger:    logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg ConsumerConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	for _, q := range []string{cfg.Queue, cfg.StatusQueue, cfg.DLQ} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	bindings := []struct{ queue, key string }{
		{cfg.Queue, RoutingKeyAnalysis},
		{cfg.StatusQueue, RoutingKeyStatus},
	}
	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.key, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", b.queue, b.key, err)
		}
	}
	return nil
}

// Start consumes the analysis queue with a fixed pool of workers and
// blocks until ctx is cancelled or the broker drops the delivery
// stream.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.Info("consuming analysis queue",
		zap.String("queue", c.queue),
		zap.Int("workers", c.workers),
	)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(id int) {
			defer c.wg.Done()
			c.consumeLoop(ctx, c.logger.With(zap.Int("worker", id)), deliveries)
		}(i)
	}

	idle := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(idle)
	}()

	select {
	case <-ctx.Done():
		c.logger.Info("shutdown requested, draining workers")
		<-idle
		return nil
	case <-idle:
		if ctx.Err() != nil {
			return nil
		}
		return errors.New("delivery stream closed")
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, log *zap.Logger, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.dispatch(ctx, d, log)
		}
	}
}

// dispatch runs the handler once. Handler errors pause the worker for
// a backoff interval before the requeue so a poisoned head of queue
// cannot spin the pool.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery, log *zap.Logger) {
	if err := c.handler(ctx, d.Body); err != nil {
		redeliveries := redeliveryCount(d)
		delay := c.backoffFor(redeliveries)
		log.Warn("handler failed, requeueing after backoff",
			zap.Error(err),
			zap.Int("redeliveries", redeliveries),
			zap.Duration("delay", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			_ = d.Nack(false, false)
			return
		}

		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}

// redeliveryCount reads the broker's x-death header, which gains one
// entry per dead-letter hop and is absent on first delivery.
func redeliveryCount(d amqp.Delivery) int {
	deaths, ok := d.Headers["x-death"].([]interface{})
	if !ok || len(deaths) == 0 {
		return 1
	}
	return len(deaths)
}

func (c *Consumer) backoffFor(redeliveries int) time.Duration {
	delay := c.baseDelay
	for i := 1; i < redeliveries && delay < maxBackoff; i++ {
		delay *= 2
	}
	return min(delay, maxBackoff)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
