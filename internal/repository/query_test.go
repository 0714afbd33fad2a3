package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"connector-service/internal/config"
	mongodb "connector-service/internal/database/mongo"
	"connector-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPostQueries(t *testing.T) {
	postID := bson.NewObjectID()
	userID := bson.NewObjectID()
	commentID := bson.NewObjectID()
	like := models.Like{ID: bson.NewObjectID(), User: userID}
	comment := models.Comment{ID: commentID, User: userID, Text: "hi"}

	tests := []struct {
		name       string
		build      func() (bson.M, bson.M)
		wantFilter bson.M
		wantUpdate bson.M
	}{
		{
			name:       "add like requires no like from the user",
			build:      func() (bson.M, bson.M) { return addLikeQuery(postID, like) },
			wantFilter: bson.M{"_id": postID, "like.user": bson.M{"$ne": userID}},
			wantUpdate: bson.M{"$push": bson.M{"like": bson.M{"$each": bson.A{like}, "$position": 0}}},
		},
		{
			name:       "remove like requires a like from the user",
			build:      func() (bson.M, bson.M) { return removeLikeQuery(postID, userID) },
			wantFilter: bson.M{"_id": postID, "like.user": userID},
			wantUpdate: bson.M{"$pull": bson.M{"like": bson.M{"user": userID}}},
		},
		{
			name:       "add comment inserts at the front",
			build:      func() (bson.M, bson.M) { return addCommentQuery(postID, comment) },
			wantFilter: bson.M{"_id": postID},
			wantUpdate: bson.M{"$push": bson.M{"comments": bson.M{"$each": bson.A{comment}, "$position": 0}}},
		},
		{
			name:       "remove comment targets one comment id",
			build:      func() (bson.M, bson.M) { return removeCommentQuery(postID, commentID) },
			wantFilter: bson.M{"_id": postID, "comments._id": commentID},
			wantUpdate: bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
		},
		{
			name:  "user activity strips likes and comments",
			build: func() (bson.M, bson.M) { return userActivityQuery(userID) },
			wantFilter: bson.M{"$or": bson.A{
				bson.M{"like.user": userID},
				bson.M{"comments.user": userID},
			}},
			wantUpdate: bson.M{"$pull": bson.M{
				"like":     bson.M{"user": userID},
				"comments": bson.M{"user": userID},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, update := tt.build()
			assert.Equal(t, tt.wantFilter, filter)
			assert.Equal(t, tt.wantUpdate, update)
		})
	}
}

func TestPullEntryQuery(t *testing.T) {
	userID := bson.NewObjectID()
	entryID := bson.NewObjectID()

	filter, update := pullEntryQuery(userID, "experience", entryID)

	assert.Equal(t, bson.M{"user": userID, "experience._id": entryID}, filter)
	assert.Equal(t, bson.M{"$pull": bson.M{"experience": bson.M{"_id": entryID}}}, update)
}

// newTestDatabase connects to MONGODB_URI and returns a throwaway database.
func newTestDatabase(t *testing.T) *mongodb.Store {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := mongodb.Connect(ctx, config.MongoDBConfig{
		URI:      uri,
		Database: "connector_test_" + bson.NewObjectID().Hex(),
		PoolSize: 10,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Database.Drop(context.Background())
		store.Disconnect()
	})
	return store
}

func TestPostRepositoryConditionalUpdates(t *testing.T) {
	store := newTestDatabase(t)
	repo := NewPostRepository(store.Database)
	ctx := context.Background()
	require.NoError(t, repo.CreateIndexes(ctx))

	owner := bson.NewObjectID()
	liker := bson.NewObjectID()
	post, err := repo.Create(ctx, &models.Post{User: owner, Text: "hello", Name: "Ann"})
	require.NoError(t, err)

	liked, err := repo.AddLike(ctx, post.ID, models.Like{User: liker})
	require.NoError(t, err)
	require.NotNil(t, liked)
	assert.Len(t, liked.Like, 1)

	again, err := repo.AddLike(ctx, post.ID, models.Like{User: liker})
	require.NoError(t, err)
	assert.Nil(t, again)

	stored, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Like, 1)

	first, err := repo.AddComment(ctx, post.ID, models.Comment{User: liker, Text: "one"})
	require.NoError(t, err)
	second, err := repo.AddComment(ctx, post.ID, models.Comment{User: owner, Text: "two"})
	require.NoError(t, err)
	require.Len(t, second.Comments, 2)
	assert.Equal(t, "two", second.Comments[0].Text)

	removed, err := repo.RemoveComment(ctx, post.ID, first.Comments[0].ID)
	require.NoError(t, err)
	require.Len(t, removed.Comments, 1)
	assert.Equal(t, "two", removed.Comments[0].Text)

	missing, err := repo.RemoveComment(ctx, post.ID, bson.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	unliked, err := repo.RemoveLike(ctx, post.ID, liker)
	require.NoError(t, err)
	require.NotNil(t, unliked)
	assert.Empty(t, unliked.Like)

	notLiked, err := repo.RemoveLike(ctx, post.ID, liker)
	require.NoError(t, err)
	assert.Nil(t, notLiked)
}
