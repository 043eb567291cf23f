package shared

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

type AppConfig struct {
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]CacheConfig

	EnforceHTTPS bool

	Environment string
}

// LoadEnv reads a .env file when present. Missing files are fine, real
// environments configure through the process environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to load .env file", "error", err)
		}
	}
}

func GetServerPort() string {
	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
	}

	return port
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/signup": {Requests: 5, Window: time.Minute},
			"/auth":   {Requests: 10, Window: time.Minute},
			"/todos":  {Requests: 100, Window: time.Minute},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]CacheConfig{
			"/todos": {TTL: 3 * time.Second, Enabled: true},
		},
		EnforceHTTPS: false,
		Environment:  "development",
	}
}
