package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers selectable via STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"mongo"`
	MongoURL    string `env:"MONGO_URL" env-default:"mongodb://localhost:27017"`
	DBName      string `env:"DB_NAME" env-default:"taskflow_db"`
	SQLitePath  string `env:"SQLITE_PATH" env-default:"data/taskflow.db"`

	// Comma-separated allow-list; "*" allows every origin.
	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"*"`

	// RPS <= 0 disables the limiter.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}
