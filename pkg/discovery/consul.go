package discovery

import (
	"fmt"
	"log"
	"strconv"

	"connector-service/internal/config"

	"github.com/hashicorp/consul/api"
)

type ServiceRegistry struct {
	client *api.Client
	server config.ServerConfig
}

func NewServiceRegistry(consul config.ConsulConfig, server config.ServerConfig) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client: client,
		server: server,
	}, nil
}

// Registration describes this instance with an HTTP check on /health.
func (sr *ServiceRegistry) Registration() *api.AgentServiceRegistration {
	port, _ := strconv.Atoi(sr.server.Port)
	return &api.AgentServiceRegistration{
		ID:      sr.server.ServiceID,
		Name:    sr.server.ServiceName,
		Port:    port,
		Address: sr.server.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.server.ServiceAddress, sr.server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"connector", "rest"},
	}
}

func (sr *ServiceRegistry) Register() error {
	if err := sr.client.Agent().ServiceRegister(sr.Registration()); err != nil {
		return fmt.Errorf("failed to register service with Consul: %w", err)
	}

	log.Println("Successfully registered service with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	return sr.client.Agent().ServiceDeregister(sr.server.ServiceID)
}
