package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connector-service/internal/config"
	"connector-service/internal/database/mongo"
	"connector-service/internal/database/redis"
	"connector-service/internal/events"
	grpcServer "connector-service/internal/grpc"
	"connector-service/internal/handlers"
	"connector-service/internal/repository"
	"connector-service/internal/service"
	"connector-service/pkg/discovery"
)

func setupLogging(logDir string) (*os.File, error) {
	if logDir == "" {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		return nil, nil
	}

	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg := config.Load()

	logFile, err := setupLogging(cfg.Log.Dir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := mongo.Connect(ctx, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(store.Database)
	profileRepo := repository.NewProfileRepository(store.Database)
	postRepo := repository.NewPostRepository(store.Database)

	for name, indexer := range map[string]interface {
		CreateIndexes(context.Context) error
	}{"users": userRepo, "profiles": profileRepo, "posts": postRepo} {
		if err := indexer.CreateIndexes(ctx); err != nil {
			log.Printf("Warning: Failed to create %s indexes: %v", name, err)
		}
	}

	redisRepo := repository.NewRedisRepo(redis.NewClient(ctx, cfg.Redis))
	cancel()

	eventPublisher, err := events.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
		eventPublisher, _ = events.NewEventPublisher("")
	}

	// Initialize services
	jwtService := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	userService := service.NewUserService(userRepo, redisRepo, jwtService, eventPublisher, service.UserServiceConfig{
		BcryptCost:      cfg.Auth.BcryptCost,
		MaxFailedLogins: cfg.Auth.MaxFailedLogins,
		LockoutWindow:   cfg.Auth.LockoutWindow,
	})
	postService := service.NewPostService(postRepo, userRepo, eventPublisher)
	profileService := service.NewProfileService(profileRepo, userRepo, redisRepo, postService, eventPublisher, service.ProfileServiceConfig{
		CacheTTL:   cfg.Redis.CacheTTL,
		AsyncPurge: eventPublisher.Enabled(),
	})

	eventConsumer, err := events.NewEventConsumer(cfg.RabbitMQ.URI, cfg.RabbitMQ.QueueName, postService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else if err := eventConsumer.Start(); err != nil {
		log.Printf("Warning: Failed to start event consumer: %v", err)
		eventConsumer.Close()
		eventConsumer = nil
	}

	app := handlers.NewApp(handlers.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	opts := handlers.Options{
		Verifier:       jwtService,
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	handlers.NewHealthHandler(store).RegisterRoutes(app)
	handlers.NewUserHandler(userService, opts).RegisterRoutes(app)
	handlers.NewAuthHandler(userService, opts).RegisterRoutes(app)
	handlers.NewProfileHandler(profileService, opts).RegisterRoutes(app)
	handlers.NewPostHandler(postService, opts).RegisterRoutes(app)

	healthServer := grpcServer.NewHealthServer(cfg.Server.ServiceName, store)
	if err := healthServer.Start(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.GRPCPort)); err != nil {
		log.Printf("Warning: Failed to start gRPC health server: %v", err)
	}

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg.Consul, cfg.Server)
		if err != nil {
			log.Printf("Warning: Service discovery init failed: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Warning: %v", err)
			registry = nil
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	healthServer.Stop()

	if eventConsumer != nil {
		if err := eventConsumer.Close(); err != nil {
			log.Printf("Error closing event consumer: %v", err)
		}
	}

	if err := eventPublisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	store.Disconnect()

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
