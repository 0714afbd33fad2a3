package service

import (
	"context"
	"fmt"
	"log"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	msgPostNotFound    = "Post not found"
	msgCommentNotFound = "comment not found"
	msgAlreadyLiked    = "post already liked"
	msgNotLiked        = "post has not yet been liked"
	msgUserNotFound    = "User not found"
)

type PostService struct {
	posts     PostStore
	users     UserStore
	publisher EventPublisher
}

func NewPostService(posts PostStore, users UserStore, publisher EventPublisher) *PostService {
	return &PostService{
		posts:     posts,
		users:     users,
		publisher: publisher,
	}
}

// Create stores a post carrying the author's current name and avatar.
func (s *PostService) Create(ctx context.Context, identity models.Identity, text string) (*models.Post, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.Create(ctx, &models.Post{
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to create post")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPostCreated(ctx, post.ID.Hex(), author.ID.Hex()); err != nil {
			log.Printf("Warning: Failed to publish post created event: %v", err)
		}
	}
	return post, nil
}

func (s *PostService) All(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list posts")
	}
	return posts, nil
}

// Load resolves a post from a raw id. A malformed id is reported like a
// missing post.
func (s *PostService) Load(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := bson.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperror.New(apperror.NotFound, msgPostNotFound)
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to find post")
	}
	if post == nil {
		return nil, apperror.New(apperror.NotFound, msgPostNotFound)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, post *models.Post) error {
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return apperror.Wrap(err, "failed to delete post")
	}
	return nil
}

func (s *PostService) Like(ctx context.Context, identity models.Identity, post *models.Post) ([]models.Like, error) {
	if post.LikedBy(identity.UserID) {
		return nil, apperror.New(apperror.BadRequest, msgAlreadyLiked)
	}

	updated, err := s.posts.AddLike(ctx, post.ID, models.Like{User: identity.UserID})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to like post")
	}
	if updated == nil {
		return nil, apperror.New(apperror.BadRequest, msgAlreadyLiked)
	}
	return updated.Like, nil
}

func (s *PostService) Unlike(ctx context.Context, identity models.Identity, post *models.Post) ([]models.Like, error) {
	if !post.LikedBy(identity.UserID) {
		return nil, apperror.New(apperror.BadRequest, msgNotLiked)
	}

	updated, err := s.posts.RemoveLike(ctx, post.ID, identity.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to unlike post")
	}
	if updated == nil {
		return nil, apperror.New(apperror.BadRequest, msgNotLiked)
	}
	return updated.Like, nil
}

func (s *PostService) Comment(ctx context.Context, identity models.Identity, post *models.Post, text string) ([]models.Comment, error) {
	author, err := s.author(ctx, identity)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.AddComment(ctx, post.ID, models.Comment{
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to add comment")
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, msgPostNotFound)
	}
	return updated.Comments, nil
}

// LoadComment resolves the post and the comment it embeds.
func (s *PostService) LoadComment(ctx context.Context, rawPostID, rawCommentID string) (models.CommentTarget, error) {
	post, err := s.Load(ctx, rawPostID)
	if err != nil {
		return models.CommentTarget{}, err
	}

	commentID, err := bson.ObjectIDFromHex(rawCommentID)
	if err != nil {
		return models.CommentTarget{}, apperror.New(apperror.NotFound, msgCommentNotFound)
	}
	comment := post.FindComment(commentID)
	if comment == nil {
		return models.CommentTarget{}, apperror.New(apperror.NotFound, msgCommentNotFound)
	}
	return models.CommentTarget{Post: post, Comment: comment}, nil
}

func (s *PostService) DeleteComment(ctx context.Context, target models.CommentTarget) ([]models.Comment, error) {
	updated, err := s.posts.RemoveComment(ctx, target.Post.ID, target.Comment.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to delete comment")
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, msgCommentNotFound)
	}
	return updated.Comments, nil
}

// PurgeUser deletes the user's posts and strips their likes and comments
// from the remaining ones.
func (s *PostService) PurgeUser(ctx context.Context, userID bson.ObjectID) error {
	deleted, err := s.posts.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("error purging posts of user %s: %w", userID.Hex(), err)
	}
	touched, err := s.posts.PullUserActivity(ctx, userID)
	if err != nil {
		return fmt.Errorf("error purging activity of user %s: %w", userID.Hex(), err)
	}
	log.Printf("Purged user %s: %d posts deleted, %d posts cleaned", userID.Hex(), deleted, touched)
	return nil
}

func (s *PostService) author(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, apperror.New(apperror.NotFound, msgUserNotFound)
	}
	return user, nil
}
