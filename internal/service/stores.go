package service

import (
	"context"
	"errors"
	"time"

	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrDuplicateEmail is returned by a UserStore when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Lookups return (nil, nil) when nothing matches. Conditional updates
// (AddLike, RemoveLike, RemoveComment, ...) also return (nil, nil) when
// their condition did not hold.

type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error)
	FindSummaries(ctx context.Context, ids []bson.ObjectID) ([]models.UserSummary, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type ProfileStore interface {
	Upsert(ctx context.Context, userID bson.ObjectID, fields *models.ProfileFields) (*models.Profile, error)
	FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Profile, error)
	FindAll(ctx context.Context) ([]*models.Profile, error)
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
	AddExperience(ctx context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID bson.ObjectID) (*models.Profile, error)
	AddEducation(ctx context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID bson.ObjectID) (*models.Profile, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	AddLike(ctx context.Context, postID bson.ObjectID, like models.Like) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID bson.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, postID bson.ObjectID, comment models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID bson.ObjectID) (*models.Post, error)
	DeleteByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	PullUserActivity(ctx context.Context, userID bson.ObjectID) (int64, error)
}

// SummaryCache holds user summaries used when populating profiles.
type SummaryCache interface {
	GetSummary(ctx context.Context, id bson.ObjectID) (*models.UserSummary, bool)
	SetSummary(ctx context.Context, summary models.UserSummary, ttl time.Duration)
	DeleteSummary(ctx context.Context, id bson.ObjectID)
}

// LoginGuard counts failed logins per email.
type LoginGuard interface {
	FailedLogins(ctx context.Context, email string) int64
	RecordFailedLogin(ctx context.Context, email string, window time.Duration)
	ResetFailedLogins(ctx context.Context, email string)
}
