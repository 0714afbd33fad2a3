package middleware

import (
	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Action int

const (
	ActionDeletePost Action = iota
	ActionMutateProfile
	ActionDeleteComment
)

type Owned interface {
	OwnerID() bson.ObjectID
}

// Authored is an owned resource with a separate author, such as a comment
// on someone else's post.
type Authored interface {
	Owned
	AuthorID() bson.ObjectID
}

// Authorize decides whether identity may perform action on an existing
// resource.
func Authorize(identity models.Identity, resource Owned, action Action) error {
	switch action {
	case ActionDeletePost, ActionMutateProfile:
		if identity.Is(resource.OwnerID()) {
			return nil
		}
	case ActionDeleteComment:
		authored, ok := resource.(Authored)
		if ok && (identity.Is(authored.AuthorID()) || identity.Is(authored.OwnerID())) {
			return nil
		}
	}
	return apperror.ErrNotAuthorized
}
