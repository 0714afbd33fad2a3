package handlers

import (
	"strings"
	"time"

	"connector-service/internal/middleware"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

// NewApp builds the fiber app with the shared middleware chain. Routes are
// added by the handlers' RegisterRoutes.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	origins := []string{"*"}
	if cfg.AllowOrigins != "" {
		origins = strings.Split(cfg.AllowOrigins, ",")
	}

	app.Use(recoverer.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.TokenHeader, fiber.HeaderAuthorization},
	}))

	return app
}
