package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type EventType string

const (
	UserRegistered EventType = "user.registered"
	UserDeleted    EventType = "user.deleted"
	PostCreated    EventType = "post.created"
)

const (
	UserExchange = "user-events"
	PostExchange = "post-events"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

func newBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Version:   "1.0",
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func NewUserRegisteredEvent(userID, name, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBaseEvent(UserRegistered),
		UserID:    userID,
		Name:      name,
		Email:     email,
	}
}

func (e *UserRegisteredEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// UserDeletedEvent asks consumers to drop everything the user left behind.
type UserDeletedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

func NewUserDeletedEvent(userID string) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseEvent: newBaseEvent(UserDeleted),
		UserID:    userID,
	}
}

func (e *UserDeletedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type PostCreatedEvent struct {
	BaseEvent
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

func NewPostCreatedEvent(postID, userID string) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseEvent: newBaseEvent(PostCreated),
		PostID:    postID,
		UserID:    userID,
	}
}

func (e *PostCreatedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
