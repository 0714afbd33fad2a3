package grpc

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type DatabaseChecker interface {
	IsConnected(ctx context.Context) bool
}

// HealthServer serves the standard gRPC health protocol and mirrors the
// database connectivity into the service status.
type HealthServer struct {
	server      *grpc.Server
	health      *health.Server
	serviceName string
	database    DatabaseChecker
	stop        chan struct{}
}

func NewHealthServer(serviceName string, database DatabaseChecker) *HealthServer {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	return &HealthServer{
		server:      server,
		health:      healthServer,
		serviceName: serviceName,
		database:    database,
		stop:        make(chan struct{}),
	}
}

func (s *HealthServer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s.refresh()
	go s.watch(15 * time.Second)

	go func() {
		log.Printf("gRPC health server listening on %s", address)
		if err := s.server.Serve(listener); err != nil {
			log.Printf("gRPC health server stopped: %v", err)
		}
	}()
	return nil
}

func (s *HealthServer) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.database != nil && !s.database.IsConnected(ctx) {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName, status)
}

func (s *HealthServer) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *HealthServer) Stop() {
	close(s.stop)
	s.health.Shutdown()
	s.server.GracefulStop()
}
