package handlers

import (
	"connector-service/internal/apperror"
	"connector-service/internal/middleware"
	"connector-service/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registrationAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "connector_registration_attempts_total",
		Help: "Total number of registration attempts",
	},
	[]string{"status"},
)

var registerRules = []middleware.Rule{
	middleware.Required("name", "Name is required"),
	middleware.IsEmail("email", "Please include a valid email"),
	middleware.MinLength("password", 6, "Please enter a valid password with min of 6 chars"),
}

type UserHandler struct {
	userService *service.UserService
	opts        Options
}

func NewUserHandler(userService *service.UserService, opts Options) *UserHandler {
	return &UserHandler{
		userService: userService,
		opts:        opts,
	}
}

func (h *UserHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/users", h.Register, middleware.Validate(registerRules...))
}

// Register creates an account and answers with a token for it.
func (h *UserHandler) Register(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body

	ctx, cancel := h.opts.context()
	defer cancel()

	token, err := h.userService.Register(ctx, body.String("name"), body.String("email"), body.String("password"))
	if err != nil {
		status := "failure"
		if apperror.IsKind(err, apperror.Conflict) {
			status = "duplicate"
		}
		registrationAttempts.WithLabelValues(status).Inc()
		return err
	}

	registrationAttempts.WithLabelValues("success").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}
