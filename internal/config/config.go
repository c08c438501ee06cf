package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment          string
	Storage              string
	DBDSN                string
	HTTPAddr             string
	TelegramToken        string
	RedisAddr            string
	AvailabilityCacheTTL time.Duration
	Location             *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV"),
		Storage:       getenv("STORAGE"),
		DBDSN:         getenv("DB_DSN"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		RedisAddr:     getenv("REDIS_ADDR"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Storage == "" {
		cfg.Storage = StoragePostgres
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.AvailabilityCacheTTL = time.Minute
	if raw := getenv("AVAILABILITY_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("AVAILABILITY_CACHE_TTL must be a positive duration, got %q", raw)
		}
		cfg.AvailabilityCacheTTL = ttl
	}

	cfg.Location = time.UTC
	if name := getenv("TIMEZONE"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("load TIMEZONE %q: %w", name, err)
		}
		cfg.Location = loc
	}

	// Проверяем обязательные поля
	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	return cfg, nil
}

// BotEnabled бот запускается только при заданном токене
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// CacheEnabled кэш доступности работает только при заданном адресе Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
