package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connector-service/internal/middleware"
	"connector-service/internal/models"
	"connector-service/internal/service"
	"connector-service/internal/service/servicetest"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	app       *fiber.App
	users     *servicetest.UserStore
	profiles  *servicetest.ProfileStore
	posts     *servicetest.PostStore
	cache     *servicetest.Cache
	publisher *servicetest.Publisher
	tokens    *service.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		users:     servicetest.NewUserStore(),
		profiles:  servicetest.NewProfileStore(),
		posts:     servicetest.NewPostStore(),
		cache:     servicetest.NewCache(),
		publisher: &servicetest.Publisher{},
		tokens:    service.NewJWTService("test-secret", time.Hour),
	}

	userService := service.NewUserService(s.users, s.cache, s.tokens, s.publisher, service.UserServiceConfig{
		BcryptCost:      bcrypt.MinCost,
		MaxFailedLogins: 5,
		LockoutWindow:   time.Minute,
	})
	postService := service.NewPostService(s.posts, s.users, s.publisher)
	profileService := service.NewProfileService(s.profiles, s.users, s.cache, postService, s.publisher, service.ProfileServiceConfig{
		CacheTTL: time.Minute,
	})

	s.app = NewApp(AppConfig{})
	opts := Options{Verifier: s.tokens, RequestTimeout: 5 * time.Second}
	NewHealthHandler(nil).RegisterRoutes(s.app)
	NewUserHandler(userService, opts).RegisterRoutes(s.app)
	NewAuthHandler(userService, opts).RegisterRoutes(s.app)
	NewProfileHandler(profileService, opts).RegisterRoutes(s.app)
	NewPostHandler(postService, opts).RegisterRoutes(s.app)

	return s
}

// register creates a user through the API and returns its token.
func (s *testServer) register(t *testing.T, name, email string) (string, *models.User) {
	t.Helper()

	var out map[string]string
	status := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret1",
	}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out["token"])

	user, err := s.users.FindCredentialsByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	return out["token"], user
}

// do sends a JSON request and decodes the response into out when it is not nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type msgBody struct {
	Msg    string `json:"msg"`
	Errors []struct {
		Msg   string `json:"msg"`
		Param string `json:"param"`
	} `json:"errors"`
}

func (b msgBody) errorMessages() []string {
	var out []string
	for _, e := range b.Errors {
		out = append(out, e.Msg)
	}
	return out
}
