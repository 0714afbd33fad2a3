package discovery

import (
	"testing"

	"connector-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	registry, err := NewServiceRegistry(
		config.ConsulConfig{Address: "localhost:8500"},
		config.ServerConfig{
			Port:           "5000",
			ServiceName:    "connector-service",
			ServiceID:      "connector-service-1",
			ServiceAddress: "connector",
		},
	)
	require.NoError(t, err)

	registration := registry.Registration()
	assert.Equal(t, "connector-service-1", registration.ID)
	assert.Equal(t, "connector-service", registration.Name)
	assert.Equal(t, 5000, registration.Port)
	assert.Equal(t, "http://connector:5000/health", registration.Check.HTTP)
}
