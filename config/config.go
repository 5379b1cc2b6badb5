package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/taskflowhq/taskflow/pkg/constant"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisURL    string

	SecretKey           string
	Algorithm           string
	AccessExpireMinutes int
	RefreshExpireDays   int

	LoginMaxAttempts    int
	LoginWindowMinutes  int
	LoginAttemptBackend string // "postgres" or "redis"

	BcryptCost   int
	EmailEnabled bool
}

// Load reads configuration from the environment, after loading .env if
// one is present. The secret key length is enforced here so a weak key
// fails the process at startup, not at the first token signing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         mustGetEnv("DATABASE_URL"),
		RedisURL:            getEnv("REDIS_URL", ""),
		SecretKey:           mustGetEnv("SECRET_KEY"),
		Algorithm:           getEnv("ALGORITHM", "HS256"),
		AccessExpireMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", constant.DefaultAccessExpireMinutes),
		RefreshExpireDays:   getEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", constant.DefaultRefreshExpireDays),
		LoginMaxAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS", constant.DefaultLoginMaxAttempts),
		LoginWindowMinutes:  getEnvAsInt("LOGIN_ATTEMPT_WINDOW_MINUTES", constant.DefaultLoginWindowMinutes),
		LoginAttemptBackend: getEnv("LOGIN_ATTEMPT_BACKEND", "postgres"),
		BcryptCost:          getEnvAsInt("BCRYPT_COST", 0),
		EmailEnabled:        getEnvAsBool("EMAIL_ENABLED", false),
	}

	if len(cfg.SecretKey) < constant.MinSecretKeyLength {
		return nil, fmt.Errorf("SECRET_KEY must be at least %d characters long", constant.MinSecretKeyLength)
	}
	if cfg.LoginAttemptBackend != "postgres" && cfg.LoginAttemptBackend != "redis" {
		return nil, fmt.Errorf("invalid LOGIN_ATTEMPT_BACKEND %q", cfg.LoginAttemptBackend)
	}
	if cfg.LoginAttemptBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when LOGIN_ATTEMPT_BACKEND=redis")
	}

	return cfg, nil
}

// LoginWindow is the sliding interval over which failed attempts count
// toward a lockout.
func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.LoginWindowMinutes) * time.Minute
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
