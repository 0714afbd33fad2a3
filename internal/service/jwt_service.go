package service

import (
	"errors"
	"fmt"
	"time"

	"connector-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenExpired      = errors.New("token expired")
	ErrSignatureMismatch = errors.New("token signature mismatch")
)

type JWTService struct {
	secretKey []byte
	expiry    time.Duration
}

func NewJWTService(jwtSecret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secretKey: []byte(jwtSecret),
		expiry:    expiry,
	}
}

func (s *JWTService) GenerateToken(userID bson.ObjectID) (string, error) {
	now := time.Now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		User: models.ClaimsUser{ID: userID.Hex()},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("error generate token string: %w", err)
	}
	return tokenString, nil
}

func (s *JWTService) Verify(tokenString string) (*models.Identity, error) {
	return VerifyToken(tokenString, s.secretKey)
}

// VerifyToken checks signature and expiry of an HS256 token and returns the
// identity it carries.
func VerifyToken(tokenString string, secret []byte) (*models.Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	userID, err := bson.ObjectIDFromHex(claims.User.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrTokenMalformed)
	}

	return &models.Identity{UserID: userID}, nil
}
