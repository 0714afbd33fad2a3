package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 360000*time.Second, cfg.Auth.TokenExpiry)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, uint64(100), cfg.MongoDB.PoolSize)
	assert.False(t, cfg.Consul.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_EXPIRY", "1h")
	t.Setenv("MONGODB_POOL_SIZE", "20")
	t.Setenv("CONSUL_ENABLED", "true")
	t.Setenv("HOSTNAME", "node-a")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, uint64(20), cfg.MongoDB.PoolSize)
	assert.True(t, cfg.Consul.Enabled)
	assert.Equal(t, "connector-service-node-a", cfg.Server.ServiceID)
}

func TestMalformedValuesFallBack(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		get  func(*Config) any
		want any
	}{
		{"int", "BCRYPT_COST", "ten", func(c *Config) any { return c.Auth.BcryptCost }, 10},
		{"duration", "READ_TIMEOUT", "soon", func(c *Config) any { return c.Server.ReadTimeout }, 15 * time.Second},
		{"bool", "CONSUL_ENABLED", "maybe", func(c *Config) any { return c.Consul.Enabled }, false},
		{"uint64", "MONGODB_POOL_SIZE", "-1", func(c *Config) any { return c.MongoDB.PoolSize }, uint64(100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			assert.Equal(t, tc.want, tc.get(Load()))
		})
	}
}
