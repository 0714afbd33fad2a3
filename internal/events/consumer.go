package events

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Consumer interface {
	Start() error
	Close() error
}

type UserPurger interface {
	PurgeUser(ctx context.Context, userID bson.ObjectID) error
}

// EventConsumer removes a deleted user's posts, likes and comments when a
// user.deleted event arrives.
type EventConsumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
	purger    UserPurger
	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	enabled   bool
}

type BindingConfig struct {
	Exchange   string
	RoutingKey string
}

func NewEventConsumer(rabbitURI, queueName string, purger UserPurger) (*EventConsumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			queueName: queueName,
			purger:    purger,
			shutdown:  make(chan struct{}),
			enabled:   false,
		}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &EventConsumer{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
		purger:    purger,
		shutdown:  make(chan struct{}),
		enabled:   true,
	}, nil
}

func (c *EventConsumer) Start() error {
	if !c.enabled {
		log.Println("Event consumption is disabled, not starting consumer")
		return nil
	}

	err := c.channel.ExchangeDeclare(
		UserExchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", UserExchange, err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	bindings := []BindingConfig{
		{Exchange: UserExchange, RoutingKey: string(UserDeleted)},
	}
	for _, binding := range bindings {
		err := c.channel.QueueBind(
			c.queueName,        // queue name
			binding.RoutingKey, // routing key
			binding.Exchange,   // exchange
			false,              // no-wait
			nil,                // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue to exchange %s with key %s: %w",
				binding.Exchange, binding.RoutingKey, err)
		}
		log.Printf("Bound queue %s to exchange %s with routing key %s",
			c.queueName, binding.Exchange, binding.RoutingKey)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	log.Printf("Event consumer started on queue %s", c.queueName)
	return nil
}

func (c *EventConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping event consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed, stopping event consumer")
				return
			}

			if err := c.HandleMessage(msg.RoutingKey, msg.Body); err != nil {
				log.Printf("FAILED to process message - Exchange: %s, RoutingKey: %s, Error: %v",
					msg.Exchange, msg.RoutingKey, err)
				// requeue once; a redelivered failure is dropped
				if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
					log.Printf("Error rejecting failed message: %v", nackErr)
				}
				continue
			}

			if err := msg.Ack(false); err != nil {
				log.Printf("Error acknowledging message: %v", err)
			}
		}
	}
}

// HandleMessage dispatches one delivery by routing key. Unknown keys are
// accepted and ignored.
func (c *EventConsumer) HandleMessage(routingKey string, body []byte) error {
	switch EventType(routingKey) {
	case UserDeleted:
		return c.handleUserDeleted(body)
	default:
		log.Printf("Unknown routing key: %s", routingKey)
		return nil
	}
}

func (c *EventConsumer) handleUserDeleted(body []byte) error {
	var event UserDeletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal user deleted event: %w", err)
	}

	userID, err := bson.ObjectIDFromHex(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id in user deleted event %q: %w", event.UserID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.purger.PurgeUser(ctx, userID); err != nil {
		return err
	}

	log.Printf("Processed user deleted event for user: %s", event.UserID)
	return nil
}

func (c *EventConsumer) Close() error {
	if !c.enabled {
		return nil
	}

	var err error
	c.closeOnce.Do(func() {
		close(c.shutdown)
		c.wg.Wait()

		if c.channel != nil {
			err = c.channel.Close()
		}
		if c.conn != nil {
			if closeErr := c.conn.Close(); closeErr != nil {
				err = closeErr
			}
		}
	})
	return err
}
