// Package events publishes entity change notifications to Kafka and reads
// them back for the audit trail.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	ParameterCreated  EventType = "parameter_created"
	ParameterUpdated  EventType = "parameter_updated"
	ParameterDeleted  EventType = "parameter_deleted"
	CompanyCreated    EventType = "company_created"
	CompanyUpdated    EventType = "company_updated"
	CompanyDeleted    EventType = "company_deleted"
	ConsortiumCreated EventType = "consortium_created"
	ConsortiumUpdated EventType = "consortium_updated"
	ConsortiumDeleted EventType = "consortium_deleted"
	ProjectCreated    EventType = "project_created"
	ProjectUpdated    EventType = "project_updated"
	ProjectDeleted    EventType = "project_deleted"
	WorkerCreated     EventType = "worker_created"
	WorkerUpdated     EventType = "worker_updated"
	WorkerDeleted     EventType = "worker_deleted"
)

// Event is the message written to the topic. Key identifies the entity
// (numeric id or worker UUID) and doubles as the Kafka partition key.
type Event struct {
	Type       EventType       `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type pending struct {
	Type    EventType
	Key     string
	At      time.Time
	Payload interface{}
}

// Producer queues events in a bounded buffer and writes them from a single
// goroutine. Produce never blocks; events are dropped when the queue is full.
type Producer struct {
	writer    KafkaWriter
	events    chan pending
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger, 1000)
	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, buffer int) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan pending, buffer),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Produce enqueues an event about the entity identified by key. payload is
// serialised when the event is sent.
func (p *Producer) Produce(eventType EventType, key string, payload interface{}) {
	select {
	case p.events <- pending{Type: eventType, Key: key, At: time.Now().UTC(), Payload: payload}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("key", key),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event pending) {
	payload, err := jsonMarshal(event.Payload)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("key", event.Key),
		)
		return
	}
	value, err := jsonMarshal(Event{Type: event.Type, Key: event.Key, OccurredAt: event.At, Payload: payload})
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("key", event.Key),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key),
		)
	}
}

// Close stops the event loop and closes the writer. Events still queued are
// discarded.
func (p *Producer) Close() {
	close(p.closeChan)
	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
	}
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// Discard drops every event. It stands in for Producer when no broker is
// configured.
type Discard struct{}

func (Discard) Produce(EventType, string, interface{}) {}
