package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

const (
	dialAttempts = 10
	dialBackoff  = 2 * time.Second
)

// AMQPPublisher pushes order events onto a durable RabbitMQ queue for the
// notification workers (email, in-app) downstream.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPPublisher connects to the broker and declares the queue. The dial
// is retried because the broker is usually still starting when the API
// comes up in compose.
func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	return &AMQPPublisher{
		conn:    conn,
		channel: ch,
		queue:   queueName,
	}, nil
}

func (p *AMQPPublisher) OrderCreated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, newEvent(eventOrderCreated, order))
}

func (p *AMQPPublisher) OrderUpdated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, newEvent(eventOrderUpdated, order))
}

func (p *AMQPPublisher) publish(ctx context.Context, ev event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			MessageId:    ev.OrderID,
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	_ = p.channel.Close()
	_ = p.conn.Close()
}
