// Package kafka streams committed audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Record header names.
const (
	HeaderAction        = "action"
	HeaderCorrelationID = "correlation_id"
)

const defaultDeliveryTimeout = 5 * time.Second

// AuditPublisher produces one record per audit event, keyed by request id so that
// all events of a request land on the same partition in order.
type AuditPublisher struct {
	client    *kgo.Client
	topic     string
	logger    *slog.Logger
	onFailure func(error)
}

var _ portssvc.AuditPublisher = (*AuditPublisher)(nil)

// PublisherOption configures an AuditPublisher.
type PublisherOption func(*AuditPublisher)

// WithFailureHandler is called once for every record the brokers did not acknowledge.
func WithFailureHandler(fn func(error)) PublisherOption {
	return func(p *AuditPublisher) {
		p.onFailure = fn
	}
}

// NewAuditPublisher connects to brokers and makes sure topic exists.
func NewAuditPublisher(ctx context.Context, brokers []string, topic string, logger *slog.Logger, opts ...PublisherOption) (*AuditPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka audit topic is empty")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
		kgo.RecordRetries(3),
		kgo.RecordDeliveryTimeout(defaultDeliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}

	if err := EnsureTopic(ctx, kadm.NewClient(client), topic); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("Kafka audit publisher ready", slog.Any("brokers", brokers), slog.String("topic", topic))
	return newAuditPublisher(client, topic, logger, opts...), nil
}

func newAuditPublisher(client *kgo.Client, topic string, logger *slog.Logger, opts ...PublisherOption) *AuditPublisher {
	p := &AuditPublisher{client: client, topic: topic, logger: logger, onFailure: func(error) {}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureTopic creates topic with broker-default partitions and replication unless it already exists.
func EnsureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopic(ctx, -1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// PublishAuditEvent buffers the record and returns without waiting for the brokers.
// Delivery failures are logged and reported to the failure handler.
func (p *AuditPublisher) PublishAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	record, err := NewAuditRecord(p.topic, event)
	if err != nil {
		return err
	}

	// The event is committed; the request finishing must not cancel delivery.
	p.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err == nil {
			return
		}
		p.logger.Error("Failed to deliver audit event",
			slog.String("audit_id", event.AuditID),
			slog.String("error", err.Error()),
		)
		p.onFailure(fmt.Errorf("produce audit event %s: %w", event.AuditID, err))
	})
	return nil
}

// Close flushes buffered records and closes the client.
func (p *AuditPublisher) Close(ctx context.Context) {
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("Kafka flush on close failed", slog.String("error", err.Error()))
	}
	p.client.Close()
}

// NewAuditRecord encodes event as a JSON record for topic.
func NewAuditRecord(topic string, event domain.AuditEvent) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode audit event %s: %w", event.AuditID, err)
	}

	record := &kgo.Record{
		Topic:     topic,
		Value:     value,
		Timestamp: event.Timestamp,
		Headers: []kgo.RecordHeader{
			{Key: HeaderAction, Value: []byte(event.Action)},
		},
	}
	if event.RequestID != nil {
		record.Key = []byte(*event.RequestID)
	}
	if event.CorrelationID != nil {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: HeaderCorrelationID, Value: []byte(*event.CorrelationID)})
	}
	return record, nil
}
