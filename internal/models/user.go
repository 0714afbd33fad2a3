package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID       bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string        `json:"name" bson:"name"`
	Email    string        `json:"email" bson:"email"`
	Password string        `json:"-" bson:"password,omitempty"`
	Avatar   string        `json:"avatar" bson:"avatar"`
	Date     time.Time     `json:"date" bson:"date"`
}

// UserSummary is the public part of a user attached to profiles at read time.
type UserSummary struct {
	ID     bson.ObjectID `json:"_id" bson:"_id"`
	Name   string        `json:"name" bson:"name"`
	Avatar string        `json:"avatar" bson:"avatar"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}
