package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/amirasaad/goldvault/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus publishes events to Redis Streams, one stream per event type.
// Each registered handler reads through its own consumer group, so handlers in
// different processes registered in the same order share the work.
type RedisEventBus struct {
	client *redis.Client
	prefix string
	group  string
	logger *slog.Logger

	mu       sync.Mutex
	handlers int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWithRedis connects to url and returns a bus whose streams are named after
// prefix. group prefixes the consumer group names.
func NewWithRedis(url, prefix, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || prefix == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: url, stream, and group are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		prefix: prefix,
		group:  group,
		logger: logger.With("component", "redis-event-bus"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Emit appends the event to its type's stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	stream := streamNameFor(b.prefix, event.Type())
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": string(data)},
	}).Err(); err != nil {
		return fmt.Errorf("redis event bus: emit %s: %w", event.Type(), err)
	}
	b.logger.Debug("event emitted", "type", event.Type(), "stream", stream)
	return nil
}

// Register starts a consumer that calls handler for every event of eventType,
// or of every known type for eventbus.AllEvents. Failed deliveries go to the
// type's dead-letter stream and are acknowledged.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers++
	group := fmt.Sprintf("%s:%d", b.group, b.handlers)
	b.mu.Unlock()

	types := []string{eventType}
	if eventType == eventbus.AllEvents {
		types = types[:0]
		for t := range events.EventTypes {
			types = append(types, t)
		}
	}
	streams := make([]string, 0, len(types)*2)
	for _, t := range types {
		stream := streamNameFor(b.prefix, t)
		err := b.client.XGroupCreateMkStream(b.ctx, stream, group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			b.logger.Error("failed to create consumer group", "stream", stream, "group", group, "error", err)
		}
		streams = append(streams, stream)
	}
	for range types {
		streams = append(streams, ">")
	}

	consumer := fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	b.logger.Info("registering handler", "event_type", eventType, "group", group, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(group, consumer, streams, handler)
	}()
}

func (b *RedisEventBus) consume(group, consumer string, streams []string, handler eventbus.HandlerFunc) {
	for b.ctx.Err() == nil {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  streams,
			Count:    10,
			Block:    2 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || b.ctx.Err() != nil {
				continue
			}
			b.logger.Error("error reading from stream", "error", err, "consumer", consumer)
			select {
			case <-b.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.deliver(stream.Stream, group, msg, handler)
			}
		}
	}
}

func (b *RedisEventBus) deliver(stream, group string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()
	raw, _ := msg.Values["event"].(string)
	evt, eventType, err := decode([]byte(raw))
	if err == nil {
		err = safeHandle(b.ctx, handler, evt)
	}
	if err != nil {
		b.logger.Error("handler error", "error", err, "event_type", eventType, "msg_id", msg.ID)
		b.pushToDLQ(eventType, msg.Values, err)
	}
}

// pushToDLQ keeps the raw message with the failure reason for inspection.
func (b *RedisEventBus) pushToDLQ(eventType string, values map[string]any, cause error) {
	if eventType == "" {
		eventType = "unknown"
	}
	dlq := dlqStreamName(b.prefix, eventType)
	dead := make(map[string]any, len(values)+1)
	for k, v := range values {
		dead[k] = v
	}
	dead["error"] = cause.Error()
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: dead}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlq)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq)
}

// Close stops the consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func safeHandle(ctx context.Context, handler eventbus.HandlerFunc, evt events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, evt)
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
