package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"careerlytics-backend/internal/shared/telemetry"
)

const publishTimeout = 5 * time.Second

// AMQPPublisher writes events to a durable RabbitMQ queue through the
// default exchange.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// DialAMQP connects to url and declares the queue.
func DialAMQP(url, queueName string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, errors.New("amqp url is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	q, err := declareQueue(ch, queueName)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	telemetry.Info("events.amqp_connected", map[string]any{"queue": q.Name})
	return &AMQPPublisher{conn: conn, channel: ch, queue: q}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("amqp declare queue %s: %w", name, err)
	}
	return q, nil
}

// Publish sends evt as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, evt Event) error {
	evt = stamp(ctx, evt)
	body, err := Encode(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, "", p.queue.Name, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     evt.ID,
		CorrelationId: evt.RequestID,
		Type:          evt.Type,
		Timestamp:     evt.OccurredAt,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish %s: %w", evt.Type, err)
	}
	return nil
}

// Consume delivers decoded events to handler until ctx is done. Malformed
// messages are logged and dropped.
func (p *AMQPPublisher) Consume(ctx context.Context, handler func(Event)) error {
	msgs, err := p.channel.ConsumeWithContext(ctx, p.queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			evt, err := Decode(d.Body)
			if err != nil {
				telemetry.Warn("events.decode_failed", map[string]any{"error": err, "message_id": d.MessageId})
				continue
			}
			handler(evt)
		}
	}
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ Publisher = (*AMQPPublisher)(nil)
