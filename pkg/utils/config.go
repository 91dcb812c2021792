package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Event    EventConfig
	Sweep    SweepConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	Store           string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type EventConfig struct {
	Broker       string
	RabbitMQURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

type SweepConfig struct {
	Interval           time.Duration
	CancelPendingAfter time.Duration
	Concurrency        int
}

const (
	StorePostgres = "postgres"
	// StoreMemory is for tests and local development. It serializes every
	// write behind one lock.
	StoreMemory = "memory"
)

// LoadConfig reads path (a .env file) when it exists, then lets environment
// variables override it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "cinema-ticketing")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STORE", StorePostgres)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("EVENT_BROKER", "none")
	v.SetDefault("KAFKA_TOPIC", "ticketing.events")
	v.SetDefault("SWEEP_INTERVAL", "0s")
	v.SetDefault("SWEEP_CANCEL_PENDING_AFTER", "0s")
	v.SetDefault("SWEEP_CONCURRENCY", 4)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			Store:           strings.ToLower(v.GetString("STORE")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		Event: EventConfig{
			Broker:       strings.ToLower(v.GetString("EVENT_BROKER")),
			RabbitMQURL:  v.GetString("RABBITMQ_URL"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_TOPIC"),
		},
		Sweep: SweepConfig{
			Interval:           v.GetDuration("SWEEP_INTERVAL"),
			CancelPendingAfter: v.GetDuration("SWEEP_CANCEL_PENDING_AFTER"),
			Concurrency:        v.GetInt("SWEEP_CONCURRENCY"),
		},
	}

	if config.Sweep.Concurrency < 1 {
		config.Sweep.Concurrency = 1
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
