package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

func (r *PostRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "like.user", Value: 1}}},
		{Keys: bson.D{{Key: "comments.user", Value: 1}}},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.Date.IsZero() {
		post.Date = time.Now().UTC()
	}
	post.Normalize()

	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	post.Normalize()
	return &post, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var post models.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		post.Normalize()
		posts = append(posts, &post)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// AddLike only matches while the user has no like on the post, so two
// concurrent likes from one user leave a single entry.
func (r *PostRepository) AddLike(ctx context.Context, postID bson.ObjectID, like models.Like) (*models.Post, error) {
	if like.ID.IsZero() {
		like.ID = bson.NewObjectID()
	}
	filter, update := addLikeQuery(postID, like)
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID bson.ObjectID) (*models.Post, error) {
	filter, update := removeLikeQuery(postID, userID)
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *PostRepository) AddComment(ctx context.Context, postID bson.ObjectID, comment models.Comment) (*models.Post, error) {
	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	if comment.Date.IsZero() {
		comment.Date = time.Now().UTC()
	}
	filter, update := addCommentQuery(postID, comment)
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID bson.ObjectID) (*models.Post, error) {
	filter, update := removeCommentQuery(postID, commentID)
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *PostRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts of user: %w", err)
	}
	return result.DeletedCount, nil
}

// PullUserActivity strips the user's likes and comments from every post.
func (r *PostRepository) PullUserActivity(ctx context.Context, userID bson.ObjectID) (int64, error) {
	filter, update := userActivityQuery(userID)
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to pull user activity: %w", err)
	}
	return result.ModifiedCount, nil
}

func addLikeQuery(postID bson.ObjectID, like models.Like) (bson.M, bson.M) {
	filter := bson.M{
		"_id":       postID,
		"like.user": bson.M{"$ne": like.User},
	}
	return filter, pushFrontUpdate("like", like)
}

func removeLikeQuery(postID, userID bson.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"_id":       postID,
		"like.user": userID,
	}
	update := bson.M{
		"$pull": bson.M{"like": bson.M{"user": userID}},
	}
	return filter, update
}

func addCommentQuery(postID bson.ObjectID, comment models.Comment) (bson.M, bson.M) {
	return bson.M{"_id": postID}, pushFrontUpdate("comments", comment)
}

func removeCommentQuery(postID, commentID bson.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"_id":          postID,
		"comments._id": commentID,
	}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
	}
	return filter, update
}

func userActivityQuery(userID bson.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"like.user": userID},
			bson.M{"comments.user": userID},
		},
	}
	update := bson.M{
		"$pull": bson.M{
			"like":     bson.M{"user": userID},
			"comments": bson.M{"user": userID},
		},
	}
	return filter, update
}

// pushFrontUpdate inserts entry at index 0 of the array field.
func pushFrontUpdate(field string, entry any) bson.M {
	return bson.M{
		"$push": bson.M{
			field: bson.M{
				"$each":     bson.A{entry},
				"$position": 0,
			},
		},
	}
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post.Normalize()
	return &post, nil
}
