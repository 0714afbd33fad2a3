package events

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	mu            sync.RWMutex
	conn          *amqp.Connection
	channel       *amqp.Channel
	connectionURI string
	isConnected   bool
	closed        bool
}

func NewRabbitMQClient(connectionURI string) (*RabbitMQClient, error) {
	client := &RabbitMQClient{
		connectionURI: connectionURI,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *RabbitMQClient) connect() error {
	conn, err := amqp.Dial(c.connectionURI)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.isConnected = true
	c.mu.Unlock()

	go c.monitorConnection(conn)

	return nil
}

func (c *RabbitMQClient) monitorConnection(conn *amqp.Connection) {
	connCloseChan := conn.NotifyClose(make(chan *amqp.Error, 1))

	err, ok := <-connCloseChan
	c.mu.Lock()
	c.isConnected = false
	closed := c.closed
	c.mu.Unlock()

	if !ok || closed {
		return
	}
	log.Printf("RabbitMQ connection closed: %v, attempting to reconnect...", err)
	c.reconnect()
}

func (c *RabbitMQClient) reconnect() {
	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		time.Sleep(backoff)

		c.mu.RLock()
		closed := c.closed
		c.mu.RUnlock()
		if closed {
			return
		}

		err := c.connect()
		if err == nil {
			log.Println("Successfully reconnected to RabbitMQ")

			if err := c.setupExchanges(); err != nil {
				log.Printf("Failed to setup exchanges after reconnection: %v", err)
				continue
			}
			return
		}

		log.Printf("Failed to reconnect to RabbitMQ: %v", err)

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// setupExchanges declares the topic exchanges the service publishes to.
func (c *RabbitMQClient) setupExchanges() error {
	c.mu.RLock()
	channel := c.channel
	c.mu.RUnlock()

	for _, exchange := range []string{UserExchange, PostExchange} {
		err := channel.ExchangeDeclare(
			exchange, // name
			"topic",  // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}
	return nil
}

func (c *RabbitMQClient) PublishEvent(ctx context.Context, exchange, routingKey string, body []byte) error {
	c.mu.RLock()
	connected := c.isConnected
	channel := c.channel
	c.mu.RUnlock()

	if !connected {
		return fmt.Errorf("cannot publish: not connected to RabbitMQ")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := channel.PublishWithContext(
		ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (c *RabbitMQClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.isConnected = false

	var err error
	if c.channel != nil {
		err = c.channel.Close()
	}
	if c.conn != nil {
		if closeErr := c.conn.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}
