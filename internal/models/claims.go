package models

import (
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ClaimsUser struct {
	ID string `json:"id"`
}

type Claims struct {
	jwt.RegisteredClaims
	User ClaimsUser `json:"user"`
}

// Identity is the authenticated caller recovered from a token.
type Identity struct {
	UserID bson.ObjectID
}

func (i Identity) Is(id bson.ObjectID) bool {
	return !i.UserID.IsZero() && i.UserID == id
}
