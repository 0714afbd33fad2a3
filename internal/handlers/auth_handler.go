package handlers

import (
	"time"

	"connector-service/internal/middleware"
	"connector-service/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	loginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connector_login_duration_seconds",
			Help:    "Time spent processing login requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

var loginRules = []middleware.Rule{
	middleware.IsEmail("email", "Please include a valid email"),
	middleware.Required("password", "Please enter a password"),
}

type AuthHandler struct {
	userService *service.UserService
	opts        Options
}

func NewAuthHandler(userService *service.UserService, opts Options) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		opts:        opts,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/auth", h.Me, h.opts.auth())
	app.Post("/api/auth", h.Login, middleware.Validate(loginRules...))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	user, err := h.userService.Me(ctx, middleware.IdentityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	start := time.Now()
	body := middleware.RequestFrom(c).Body

	ctx, cancel := h.opts.context()
	defer cancel()

	token, err := h.userService.Login(ctx, body.String("email"), body.String("password"))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		loginDuration.WithLabelValues("failure").Observe(elapsed)
		return err
	}

	loginAttempts.WithLabelValues("success").Inc()
	loginDuration.WithLabelValues("success").Observe(elapsed)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}
