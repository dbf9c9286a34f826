package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	InventoryBase    string
	InventoryKey     string
	InventoryRPS     int
	InventoryTimeout time.Duration

	OpenAIKey   string
	OpenAIModel string

	CacheTTL    time.Duration
	SearchLimit int
	Workers     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/wayfare?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		InventoryBase:    env("INVENTORY_BASE_URL", "https://api.hotel-inventory.example/v1"),
		InventoryKey:     env("INVENTORY_API_KEY", ""),
		InventoryRPS:     atoi("INVENTORY_RPS", 5),
		InventoryTimeout: time.Duration(atoi("INVENTORY_TIMEOUT_SECONDS", 30)) * time.Second,
		OpenAIKey:        env("OPENAI_API_KEY", ""),
		OpenAIModel:      env("OPENAI_MODEL", "gpt-4o-mini"),
		CacheTTL:         time.Duration(atoi("SEARCH_CACHE_TTL_HOURS", 2)) * time.Hour,
		SearchLimit:      atoi("SEARCH_LIMIT", 50),
		Workers:          atoi("INGEST_WORKERS", 8),
	}
	if c.InventoryKey == "" {
		log.Warn().Msg("INVENTORY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
