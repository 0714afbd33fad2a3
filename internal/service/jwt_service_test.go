package service_test

import (
	"testing"
	"time"

	"connector-service/internal/models"
	"connector-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestGenerateAndVerifyToken(t *testing.T) {
	jwtService := service.NewJWTService("secret", time.Hour)
	userID := bson.NewObjectID()

	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	identity, err := jwtService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
}

func TestVerifyToken(t *testing.T) {
	secret := []byte("secret")
	userID := bson.NewObjectID()
	now := time.Now()

	valid := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		User:             models.ClaimsUser{ID: userID.Hex()},
	}
	expired := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))},
		User:             models.ClaimsUser{ID: userID.Hex()},
	}
	badUser := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		User:             models.ClaimsUser{ID: "not-an-id"},
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", signClaims(t, jwt.SigningMethodHS256, secret, valid), nil},
		{"expired", signClaims(t, jwt.SigningMethodHS256, secret, expired), service.ErrTokenExpired},
		{"wrong secret", signClaims(t, jwt.SigningMethodHS256, []byte("other"), valid), service.ErrSignatureMismatch},
		{"garbage", "not.a.token", service.ErrTokenMalformed},
		{"empty", "", service.ErrTokenMalformed},
		{"unsigned", signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), service.ErrTokenMalformed},
		{"bad user id", signClaims(t, jwt.SigningMethodHS256, secret, badUser), service.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := service.VerifyToken(tt.token, secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, identity.UserID)
		})
	}
}
