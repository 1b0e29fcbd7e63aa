// Package events publishes ride-request lifecycle transitions to Kafka
// for downstream analytics. Publishing is best effort: a broker outage
// is logged and never blocks or rolls back a committed transition.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/pkg/logger"
)

// RequestEvent is the journal record for one state transition.
type RequestEvent struct {
	RequestID   int64          `json:"request_id"`
	PassengerID int64          `json:"passenger_id"`
	DriverID    *int64         `json:"driver_id,omitempty"`
	Status      request.Status `json:"status"`
	Flow        string         `json:"flow"`
	FareAmount  *float64       `json:"fare_amount,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// Producer writes lifecycle events to a Kafka topic, keyed by request id
// so all transitions of one request land on the same partition in order.
type Producer struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewProducer creates a Producer. Returns nil when brokers is empty,
// which disables the journal.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: w, logger: log}
}

// RequestTransition implements assignment.Recorder.
func (p *Producer) RequestTransition(ctx context.Context, r *request.RideRequest, flow string) {
	if p == nil {
		return
	}

	evt := RequestEvent{
		RequestID:   r.ID,
		PassengerID: r.PassengerID,
		DriverID:    r.DriverID,
		Status:      r.Status,
		Flow:        flow,
		FareAmount:  r.FareAmount,
		OccurredAt:  time.Now().UTC(),
	}

	b, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn("Failed to encode lifecycle event", logger.Err(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	key := []byte(strconv.FormatInt(r.ID, 10))
	if err := p.writer.WriteMessages(writeCtx, kafka.Message{Key: key, Value: b}); err != nil {
		p.logger.Warn("Failed to publish lifecycle event",
			logger.Int64("request_id", r.ID),
			logger.String("status", string(r.Status)),
			logger.Err(err),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
