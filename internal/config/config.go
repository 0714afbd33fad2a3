package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Consul   ConsulConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	GRPCPort       string
	Host           string
	ServiceName    string
	ServiceAddress string
	ServiceID      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	AllowOrigins   string
}

type MongoDBConfig struct {
	URI      string
	Database string
	PoolSize uint64
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URI       string
	QueueName string
}

type ConsulConfig struct {
	Address string
	Enabled bool
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiry     time.Duration
	BcryptCost      int
	MaxFailedLogins int
	LockoutWindow   time.Duration
}

type LogConfig struct {
	Dir string
}

// Load reads the configuration from the environment, after merging a .env
// file from the working directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	serviceName := getEnv("SERVICE_NAME", "connector-service")

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			GRPCPort:       getEnv("GRPC_PORT", "5001"),
			Host:           getEnv("HOST", "0.0.0.0"),
			ServiceName:    serviceName,
			ServiceAddress: getEnv("SERVICE_ADDRESS", "connector-service"),
			ServiceID:      serviceName + "-" + getEnv("HOSTNAME", "1"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
			AllowOrigins:   getEnv("ALLOW_ORIGINS", "*"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "connector"),
			PoolSize: getEnvAsUint64("MONGODB_POOL_SIZE", 100),
			Timeout:  getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", 10*time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URI:       getEnv("RABBITMQ_URI", ""),
			QueueName: getEnv("RABBITMQ_QUEUE", "connector-service-events"),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDRESS", "consul-server:8500"),
			Enabled: getEnvAsBool("CONSUL_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenExpiry:     getEnvAsDuration("TOKEN_EXPIRY", 360000*time.Second),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 10),
			MaxFailedLogins: getEnvAsInt("AUTH_MAX_FAILED_LOGINS", 10),
			LockoutWindow:   getEnvAsDuration("AUTH_LOCKOUT_WINDOW", 10*time.Minute),
		},
		Log: LogConfig{
			Dir: getEnv("LOG_DIR", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("error retrieve int env var %s: %s", key, err)
			return defaultValue
		}
		return intVal
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		uintVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			log.Printf("error retrieve uint64 env var %s: %s", key, err)
			return defaultValue
		}
		return uintVal
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		duration, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("error retrieve duration env var %s: %s", key, err)
			return defaultValue
		}
		return duration
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("error retrieve bool env var %s: %s", key, err)
			return defaultValue
		}
		return boolVal
	}
	return defaultValue
}
