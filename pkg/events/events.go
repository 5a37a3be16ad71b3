package events

import (
	"encoding/json"
	"fmt"
	"time"

	"geoboard/internal/logger"

	amqp "github.com/streadway/amqp"
)

const scoreQueue = "score_events"

// ScoreRecorded is the payload published after an entry is persisted.
type ScoreRecorded struct {
	EntryID    string    `json:"entry_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TotalScore int       `json:"total_score"`
	PlayedAt   time.Time `json:"played_at"`
}

// Publisher is the event-publishing surface the services depend on.
type Publisher interface {
	PublishScoreRecorded(ev ScoreRecorded) error
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel, and declares the
// durable score event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		scoreQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", scoreQueue, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishScoreRecorded publishes a score recorded event to the score
// event queue as persistent JSON.
func (c *Client) PublishScoreRecorded(ev ScoreRecorded) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal score event: %w", err)
	}

	err = c.channel.Publish(
		"",         // exchange: default
		scoreQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish score event: %w", err)
	}
	return nil
}

// ConsumeScoreEvents registers a consumer on the score event queue and
// processes deliveries with the given handler in a background
// goroutine. Handler errors nack the message for redelivery.
func (c *Client) ConsumeScoreEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		scoreQueue,
		"",    // consumer tag
		false, // auto-ack off; ack after the handler succeeds
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				logger.Log.Warnf("failed to process score event %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					logger.Log.Warnf("failed to nack score event %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				logger.Log.Warnf("failed to ack score event %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
