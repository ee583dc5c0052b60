package eventbus

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/events"
	"github.com/amirasaad/goldvault/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	defaultKafkaGroup  = "goldvault"
	defaultTopicPrefix = "goldvault.events"
)

// KafkaEventBus publishes each event type to its own topic and runs one
// consumer-group reader per registered type.
type KafkaEventBus struct {
	brokers []string
	group   string
	prefix  string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  *slog.Logger

	handlersMtx sync.RWMutex
	handlers    map[string][]eventbus.HandlerFunc

	readersMtx sync.Mutex
	readers    map[string]*kafka.Reader

	topicsMtx sync.Mutex
	topics    map[string]struct{}
}

// NewWithKafka connects to the configured brokers.
func NewWithKafka(cfg config.EventBus, logger *slog.Logger) (*KafkaEventBus, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	group := strings.TrimSpace(cfg.Group)
	if group == "" {
		group = defaultKafkaGroup
	}
	prefix := strings.TrimSpace(cfg.TopicPrefix)
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer, transport, err := newKafkaDialer(cfg)
	if err != nil {
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	if transport != nil {
		writer.Transport = transport
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &KafkaEventBus{
		brokers:  brokers,
		group:    group,
		prefix:   prefix,
		writer:   writer,
		dialer:   dialer,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[string][]eventbus.HandlerFunc),
		readers:  make(map[string]*kafka.Reader),
		topics:   make(map[string]struct{}),
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := bus.ping(pingCtx); err != nil {
		_ = bus.Close()
		return nil, err
	}
	bus.logger.Info("kafka event bus initialized",
		"group_id", group,
		"brokers", brokers,
		"tls_enabled", dialer.TLS != nil,
		"sasl_enabled", dialer.SASLMechanism != nil,
	)
	return bus, nil
}

// Close stops the readers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

// Register adds handler for eventType, or for every known type with
// eventbus.AllEvents, and starts the type's reader on first use.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	types := []string{eventType}
	if eventType == eventbus.AllEvents {
		types = types[:0]
		for t := range events.EventTypes {
			types = append(types, t)
		}
	}
	for _, t := range types {
		b.handlersMtx.Lock()
		b.handlers[t] = append(b.handlers[t], handler)
		b.handlersMtx.Unlock()
		b.ensureConsumer(t)
	}
}

// Emit publishes the event keyed by account so one account's events stay ordered.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := encode(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	topic := topicNameFor(b.prefix, event.Type())
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   messageKey(event),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

func messageKey(event events.Event) []byte {
	type accountScoped interface{ Account() string }
	if e, ok := event.(accountScoped); ok {
		return []byte(e.Account())
	}
	return []byte(event.Type())
}

func (b *KafkaEventBus) ping(ctx context.Context) error {
	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()
	return nil
}

func (b *KafkaEventBus) ensureConsumer(eventType string) {
	b.readersMtx.Lock()
	defer b.readersMtx.Unlock()
	if _, exists := b.readers[eventType]; exists {
		return
	}
	topic := topicNameFor(b.prefix, eventType)
	if err := b.ensureTopic(b.ctx, topic); err != nil {
		b.logger.Error("kafka ensure topic error", "error", err, "event_type", eventType)
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.group,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		Dialer:      b.dialer,
	})
	b.readers[eventType] = reader

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(eventType, reader)
	}()
}

func (b *KafkaEventBus) consumeLoop(eventType string, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "event_type", eventType)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if err := b.process(eventType, msg); err != nil {
			// Not committed: the message is redelivered.
			b.logger.Error("kafka message processing failed; will retry", "error", err, "topic", msg.Topic, "offset", msg.Offset)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		}
	}
}

// process delivers msg to the type's handlers. Undecodable messages and
// handler failures end up on the dead-letter topic; only a failed DLQ publish
// is returned.
func (b *KafkaEventBus) process(eventType string, msg kafka.Message) error {
	evt, decodedType, err := decode(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode message", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return b.publishToDLQ(eventType, msg.Value)
	}
	if decodedType != eventType {
		b.logger.Warn("envelope type mismatch for topic", "expected", eventType, "actual", decodedType)
	}

	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.handlersMtx.RUnlock()

	failed := false
	for _, h := range handlers {
		if err := safeHandle(b.ctx, h, evt); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", eventType, "offset", msg.Offset)
			failed = true
		}
	}
	if failed {
		return b.publishToDLQ(eventType, msg.Value)
	}
	return nil
}

func (b *KafkaEventBus) publishToDLQ(eventType string, raw []byte) error {
	topic := dlqTopicNameFor(b.prefix, eventType)
	if err := b.ensureTopic(b.ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(b.ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(eventType),
		Value: raw,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: dlq publish failed: %w", err)
	}
	b.logger.Warn("message sent to DLQ", "event_type", eventType, "dlq_topic", topic)
	return nil
}

func (b *KafkaEventBus) ensureTopic(ctx context.Context, topic string) error {
	b.topicsMtx.Lock()
	_, exists := b.topics[topic]
	b.topicsMtx.Unlock()
	if exists {
		return nil
	}

	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !isTopicAlreadyExists(err) {
		return fmt.Errorf("kafka event bus: create topic failed: %w", err)
	}

	b.topicsMtx.Lock()
	b.topics[topic] = struct{}{}
	b.topicsMtx.Unlock()
	return nil
}

func newKafkaDialer(cfg config.EventBus) (*kafka.Dialer, *kafka.Transport, error) {
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, nil, err
	}
	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	dialer := &kafka.Dialer{
		Timeout:       5 * time.Second,
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}
	if tlsConfig == nil && mechanism == nil {
		return dialer, nil, nil
	}
	return dialer, &kafka.Transport{TLS: tlsConfig, SASL: mechanism}, nil
}

func saslMechanism(cfg config.EventBus) (sasl.Mechanism, error) {
	username := strings.TrimSpace(cfg.SASLUsername)
	password := strings.TrimSpace(cfg.SASLPassword)
	if username == "" && password == "" {
		return nil, nil
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("kafka event bus: sasl username and password are required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}

func isTopicAlreadyExists(err error) bool {
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "TOPIC_ALREADY_EXISTS") || strings.Contains(msg, "already exists")
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
