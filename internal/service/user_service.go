package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUserExists       = "User already exist"
	msgBadCredentials   = "Please check user and password"
	msgTooManyAttempts  = "Too many failed login attempts"
	gravatarQueryString = "?s=200&r=pg&d=mm"
)

// EventPublisher is the subset of the events publisher the services use.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, name, email string) error
	PublishUserDeleted(ctx context.Context, userID string) error
	PublishPostCreated(ctx context.Context, postID, userID string) error
}

type UserServiceConfig struct {
	BcryptCost      int
	MaxFailedLogins int
	LockoutWindow   time.Duration
}

type UserService struct {
	users     UserStore
	guard     LoginGuard
	tokens    *JWTService
	publisher EventPublisher
	cfg       UserServiceConfig
}

func NewUserService(users UserStore, guard LoginGuard, tokens *JWTService, publisher EventPublisher, cfg UserServiceConfig) *UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:     users,
		guard:     guard,
		tokens:    tokens,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Register stores a new user and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", apperror.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   GravatarURL(email),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return "", apperror.Listed(apperror.Conflict, msgUserExists)
		}
		return "", apperror.Wrap(err, "failed to create user")
	}
	log.Printf("New user registered: %s", created.ID.Hex())

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, created.ID.Hex(), created.Name, created.Email); err != nil {
			log.Printf("Warning: Failed to publish user registered event: %v", err)
		}
	}

	return s.issueToken(created.ID)
}

// Login checks the credentials and returns a signed token. Unknown email and
// wrong password produce the same outcome.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if s.cfg.MaxFailedLogins > 0 && s.guard.FailedLogins(ctx, email) >= int64(s.cfg.MaxFailedLogins) {
		log.Printf("WARN: login refused for locked email %s", email)
		return "", apperror.Listed(apperror.BadRequest, msgTooManyAttempts)
	}

	user, err := s.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		return "", apperror.Wrap(err, "failed to find user")
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.guard.RecordFailedLogin(ctx, email, s.cfg.LockoutWindow)
		return "", apperror.Listed(apperror.BadRequest, msgBadCredentials)
	}

	s.guard.ResetFailedLogins(ctx, email)
	return s.issueToken(user.ID)
}

// Me returns the caller without the password hash.
func (s *UserService) Me(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to find user")
	}
	if user == nil {
		return nil, apperror.New(apperror.NotFound, "User not found")
	}
	return user, nil
}

func (s *UserService) issueToken(id bson.ObjectID) (string, error) {
	token, err := s.tokens.GenerateToken(id)
	if err != nil {
		return "", apperror.Wrap(err, "failed to sign token")
	}
	return token, nil
}

// GravatarURL builds the avatar link for an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("//www.gravatar.com/avatar/%s%s", hex.EncodeToString(sum[:]), gravatarQueryString)
}
