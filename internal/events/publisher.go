package events

import (
	"context"
	"fmt"
	"log"
)

type Publisher interface {
	PublishUserRegistered(ctx context.Context, userID, name, email string) error
	PublishUserDeleted(ctx context.Context, userID string) error
	PublishPostCreated(ctx context.Context, postID, userID string) error

	// Close closes the publisher and releases resources
	Close() error
}

type encodable interface {
	ToJSON() ([]byte, error)
}

type EventPublisher struct {
	rabbitMQ *RabbitMQClient
	enabled  bool
}

// NewEventPublisher returns a disabled publisher when rabbitURI is empty.
func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	client, err := NewRabbitMQClient(rabbitURI)
	if err != nil {
		return nil, err
	}

	if err := client.setupExchanges(); err != nil {
		client.Close()
		return nil, err
	}

	return &EventPublisher{
		rabbitMQ: client,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) Enabled() bool {
	return p != nil && p.enabled
}

func (p *EventPublisher) PublishUserRegistered(ctx context.Context, userID, name, email string) error {
	return p.publish(ctx, UserExchange, UserRegistered, NewUserRegisteredEvent(userID, name, email))
}

func (p *EventPublisher) PublishUserDeleted(ctx context.Context, userID string) error {
	return p.publish(ctx, UserExchange, UserDeleted, NewUserDeletedEvent(userID))
}

func (p *EventPublisher) PublishPostCreated(ctx context.Context, postID, userID string) error {
	return p.publish(ctx, PostExchange, PostCreated, NewPostCreatedEvent(postID, userID))
}

func (p *EventPublisher) publish(ctx context.Context, exchange string, eventType EventType, e encodable) error {
	if !p.Enabled() {
		log.Printf("Event publishing is disabled, skipping %s", eventType)
		return nil
	}

	eventData, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	if err := p.rabbitMQ.PublishEvent(ctx, exchange, string(eventType), eventData); err != nil {
		return err
	}

	log.Printf("Published %s event", eventType)
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.Enabled() || p.rabbitMQ == nil {
		return nil
	}
	return p.rabbitMQ.Close()
}
