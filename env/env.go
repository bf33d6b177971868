package env

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Env struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	MongoDB MongoDBConfig `yaml:"mongodb"`
	SQL     SQLConfig     `yaml:"sql"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	Mode            string        `yaml:"mode" env:"GIN_MODE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres or mongodb.
	Driver string `yaml:"driver" env:"STORE_DRIVER"`
}

type MongoDBConfig struct {
	URI string `yaml:"uri" env:"MONGODB_URI"`
	DB  string `yaml:"db" env:"MONGODB_NAME"`
}

type SQLConfig struct {
	DSN string `yaml:"dsn" env:"SQL_DSN"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

var (
	once     sync.Once
	instance *Env
	loadErr  error
)

// GetEnv loads the configuration on first use and returns the same value afterwards.
func GetEnv() (*Env, error) {

	once.Do(func() {
		instance, loadErr = Load()
	})

	return instance, loadErr
}

// Load builds the configuration from defaults, the optional YAML file named by
// CATALOG_CONFIG and finally environment variables, each overriding the previous.
// Values from .env and .env.local never override variables already set.
func Load() (*Env, error) {

	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	config := defaultEnv()

	if path := os.Getenv("CATALOG_CONFIG"); path != "" {

		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(b, &config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	err := envdecode.Decode(&config)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	return &config, nil
}

func defaultEnv() Env {
	return Env{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		MongoDB: MongoDBConfig{
			URI: "mongodb://localhost:27017",
			DB:  "book-catalog",
		},
		SQL: SQLConfig{
			DSN: "file:catalog.db?_pragma=foreign_keys(1)",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
