package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/metrics"
	"github.com/Temutjin2k/safebike-web/pkg/rabbit"
)

const (
	ExchangeCourierWeb = "courier_web"
	bindingAll         = "tab.#"

	publishRetries = 3
	retryDelay     = 500 * time.Millisecond
)

// Sink delivers a tab message to the tabs connected to this instance.
type Sink interface {
	Notify(ctx context.Context, msg models.TabMessage)
}

// TabBroker fans tab messages out to every web instance through a topic exchange.
// Each instance consumes into its own exclusive queue and hands messages to its Sink.
type TabBroker struct {
	client  *rabbit.RabbitMQ
	local   Sink
	service string
	l       logger.Logger
}

func NewTabBroker(client *rabbit.RabbitMQ, local Sink, service string, l logger.Logger) *TabBroker {
	return &TabBroker{
		client:  client,
		local:   local,
		service: service,
		l:       l,
	}
}

func declareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeCourierWeb,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
}

// Notify publishes msg. When the broker cannot be reached the message still reaches
// the tabs on this instance.
func (b *TabBroker) Notify(ctx context.Context, msg models.TabMessage) {
	ctx = wrap.WithAction(ctx, "publish_tab_message")

	err := b.publish(ctx, msg)
	metrics.RecordRabbitMQPublish(b.service, ExchangeCourierWeb, err)
	if err != nil {
		b.l.Error(ctx, "failed to publish tab message, delivering locally", err, "type", msg.Type.String())
		b.local.Notify(ctx, msg)
	}
}

func (b *TabBroker) publish(ctx context.Context, msg models.TabMessage) error {
	const op = "TabBroker.publish"

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		Timestamp:     time.Now(),
		CorrelationId: wrap.FromContext(ctx).RequestID,
	}

	// publishing must outlive a browser that already navigated away
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err = retry(pubCtx, publishRetries, retryDelay, func() error {
		ch, err := b.client.Channel(pubCtx)
		if err != nil {
			return err
		}
		if err := declareExchange(ch); err != nil {
			return err
		}
		return ch.PublishWithContext(pubCtx, ExchangeCourierWeb, routingKey(msg), false, false, pub)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Consume reads tab messages until ctx is done, redialing the broker when the delivery
// channel closes.
func (b *TabBroker) Consume(ctx context.Context) error {
	const op = "TabBroker.Consume"
	ctx = wrap.WithAction(ctx, "consume_tab_messages")

	for {
		if ctx.Err() != nil {
			b.l.Debug(ctx, "tab consumer stopped by context")
			return nil
		}

		msgs, queue, err := b.subscribe(ctx)
		if err != nil {
			b.l.Error(ctx, "subscribe failed", err, "op", op)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(2 * time.Second):
			}
			continue
		}

		b.l.Info(ctx, "start consuming tab messages", "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				b.l.Info(ctx, "tab consumer shutting down", "op", op)
				return nil

			case d, ok := <-msgs:
				if !ok {
					b.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
					break consumeLoop
				}
				b.handle(ctx, queue, d)
			}
		}
	}
}

func (b *TabBroker) subscribe(ctx context.Context) (<-chan amqp.Delivery, string, error) {
	ch, err := b.client.Channel(ctx)
	if err != nil {
		return nil, "", err
	}

	if err := declareExchange(ch); err != nil {
		return nil, "", fmt.Errorf("declare exchange: %w", err)
	}

	// server-named queue that dies with this instance
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, "", fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, bindingAll, ExchangeCourierWeb, false, nil); err != nil {
		return nil, "", fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, "", fmt.Errorf("consume: %w", err)
	}
	return msgs, q.Name, nil
}

func (b *TabBroker) handle(ctx context.Context, queue string, d amqp.Delivery) {
	var msg models.TabMessage
	err := json.Unmarshal(d.Body, &msg)
	metrics.RecordRabbitMQConsume(b.service, queue, err)
	if err != nil {
		b.l.Warn(ctx, "dropping malformed tab message", "error", err.Error())
		return
	}

	ctx = wrap.WithRequestID(ctx, d.CorrelationId)
	if msg.SessionKey != "" {
		ctx = wrap.WithSessionKey(ctx, msg.SessionKey)
	}
	b.local.Notify(ctx, msg)
}
