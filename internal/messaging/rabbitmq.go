package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type RabbitMQ struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	publishTimeout time.Duration
}

// NewRabbitMQ connects and puts the channel into confirm mode, so Publish
// only returns once the broker has taken responsibility for the message.
func NewRabbitMQ(url string, publishTimeout time.Duration) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("channel could not be put into confirm mode: %w", err)
	}

	log.Info().Msg("Connected to RabbitMQ")

	return &RabbitMQ{
		conn:           conn,
		channel:        channel,
		publishTimeout: publishTimeout,
	}, nil
}

// DeclareQueue creates a durable queue if it doesn't exist
func (r *RabbitMQ) DeclareQueue(name string) error {
	_, err := r.channel.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info().Str("queue", name).Msg("Queue declared")
	return nil
}

// Publish sends a persistent message to a queue through the default exchange
// and waits for the broker confirm.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}

	confirmation, err := r.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		"",    // exchange
		queue, // routing key (queue name)
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    time.Now().UTC(),
			Headers:      headers,
			Body:         msg.Body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm message: %w", err)
	}
	if !acked {
		return errors.New("message was nacked by broker")
	}

	log.Ctx(ctx).Debug().Str("queue", queue).Str("message_id", msg.ID).Msg("Message published")
	return nil
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		errs = append(errs, r.channel.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}
