package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrPubSubClosed = errors.New("rabbitmq pubsub closed")

// PubSub is a watermill Publisher and Subscriber on top of one AMQP
// connection. Each topic maps to a queue of the same name on the default
// exchange. Queues are not durable: pending analysis work does not outlive
// the broker.
type PubSub struct {
	conn     *amqp.Connection
	prefetch int
	logger   *zap.Logger

	closeOnce sync.Once
	closing   chan struct{}
	wg        sync.WaitGroup
}

func NewPubSub(conn *amqp.Connection, prefetch int, logger *zap.Logger) *PubSub {
	if prefetch <= 0 {
		prefetch = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PubSub{
		conn:     conn,
		prefetch: prefetch,
		logger:   logger,
		closing:  make(chan struct{}),
	}
}

func (p *PubSub) Publish(topic string, messages ...*message.Message) error {
	if p.isClosed() {
		return ErrPubSubClosed
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, topic); err != nil {
		return err
	}

	for _, msg := range messages {
		headers := amqp.Table{}
		for k, v := range msg.Metadata {
			headers[k] = v
		}
		if err := ch.PublishWithContext(
			msg.Context(),
			"",
			topic,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   msg.UUID,
				Timestamp:   time.Now(),
				Headers:     headers,
				Body:        msg.Payload,
			},
		); err != nil {
			return fmt.Errorf("publish message failed: %w", err)
		}
	}
	return nil
}

// Subscribe consumes topic until ctx is done or the PubSub is closed. A
// delivery is acked when the watermill message is acked and requeued when
// it is nacked.
func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if p.isClosed() {
		return nil, ErrPubSubClosed
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if err := declareQueue(ch, topic); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.Qos(p.prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set rabbitmq qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		topic,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume queue failed: %w", err)
	}

	out := make(chan *message.Message)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(out)
		defer ch.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.closing:
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if !p.forward(ctx, d, out) {
					return
				}
			}
		}
	}()

	return out, nil
}

// forward hands one delivery to the subscriber and settles it. It returns
// false when the subscription is shutting down.
func (p *PubSub) forward(ctx context.Context, d amqp.Delivery, out chan<- *message.Message) bool {
	id := d.MessageId
	if id == "" {
		id = watermill.NewUUID()
	}
	msg := message.NewMessage(id, d.Body)
	for k, v := range d.Headers {
		if s, ok := v.(string); ok {
			msg.Metadata.Set(k, s)
		}
	}
	msgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	msg.SetContext(msgCtx)

	select {
	case out <- msg:
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return false
	case <-p.closing:
		_ = d.Nack(false, true)
		return false
	}

	select {
	case <-msg.Acked():
		if err := d.Ack(false); err != nil {
			p.logger.Warn("rabbitmq ack failed", zap.String("message_id", id), zap.Error(err))
		}
		return true
	case <-msg.Nacked():
		if err := d.Nack(false, true); err != nil {
			p.logger.Warn("rabbitmq nack failed", zap.String("message_id", id), zap.Error(err))
		}
		return true
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return false
	case <-p.closing:
		_ = d.Nack(false, true)
		return false
	}
}

// Close stops every subscription. The connection stays open; its owner
// closes it.
func (p *PubSub) Close() error {
	p.closeOnce.Do(func() {
		close(p.closing)
	})
	p.wg.Wait()
	return nil
}

func (p *PubSub) isClosed() bool {
	select {
	case <-p.closing:
		return true
	default:
		return false
	}
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}
	return nil
}
