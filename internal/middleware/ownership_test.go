package middleware

import (
	"testing"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAuthorize(t *testing.T) {
	owner := bson.NewObjectID()
	author := bson.NewObjectID()
	stranger := bson.NewObjectID()

	post := &models.Post{ID: bson.NewObjectID(), User: owner}
	comment := &models.Comment{ID: bson.NewObjectID(), User: author}
	target := models.CommentTarget{Post: post, Comment: comment}
	profile := &models.Profile{User: owner}

	tests := []struct {
		name     string
		caller   bson.ObjectID
		resource Owned
		action   Action
		allowed  bool
	}{
		{"owner deletes post", owner, post, ActionDeletePost, true},
		{"stranger deletes post", stranger, post, ActionDeletePost, false},
		{"owner mutates profile", owner, profile, ActionMutateProfile, true},
		{"stranger mutates profile", stranger, profile, ActionMutateProfile, false},
		{"author deletes comment", author, target, ActionDeleteComment, true},
		{"post owner deletes comment", owner, target, ActionDeleteComment, true},
		{"stranger deletes comment", stranger, target, ActionDeleteComment, false},
		{"comment action on plain post", owner, post, ActionDeleteComment, false},
		{"zero identity", bson.NilObjectID, &models.Post{}, ActionDeletePost, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(models.Identity{UserID: tt.caller}, tt.resource, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsKind(err, apperror.Unauthorized))
			assert.Equal(t, 401, apperror.From(err).HTTPStatus())
		})
	}
}
