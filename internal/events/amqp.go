package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const defaultExchange = "jobmatch.events"

// AMQPPublisher forwards events to a topic exchange, routing key =
// event type. An empty URI yields a disabled publisher whose methods
// are all no-ops, so callers never branch on configuration.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	log      *zap.Logger
}

func NewAMQPPublisher(uri string, log *zap.Logger) (*AMQPPublisher, error) {
	if uri == "" {
		log.Info("amqp uri not configured, event publishing disabled")
		return &AMQPPublisher{enabled: false, log: log}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		defaultExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: defaultExchange,
		enabled:  true,
		log:      log,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	if !p.enabled {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.channel.PublishWithContext(
		pubCtx,
		p.exchange,
		e.Type, // routing key
		false,  // mandatory
		false,  // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.At,
			Body:         []byte(e.JSON()),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Bridge pumps hub events into the exchange until ctx is done. Publish
// failures are logged and skipped so a broker outage never stalls the
// pipeline.
func (p *AMQPPublisher) Bridge(ctx context.Context, hub *Hub) {
	if !p.enabled {
		return
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := p.Publish(ctx, e); err != nil {
				p.log.Warn("amqp publish failed",
					zap.String("type", e.Type), zap.Error(err))
			}
		}
	}
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
