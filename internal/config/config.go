package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

type Config struct {
	AppPort string
	GinMode string
	Debug   bool

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	// TestsSeedFile is a JSON array loaded into the memory store's tests
	// collection at start.
	TestsSeedFile string

	BcryptCost int

	SessionTTL    time.Duration
	SessionHeader string

	RefreshWorkers   int
	RefreshQueueSize int
	RefreshTimeout   time.Duration

	RedisAddr     string
	RedisPassword string

	LoginMaxAttempts int
	LoginWindow      time.Duration
	LoginLock        time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env.local file in the
// working directory (or its parent) is applied first when present; real
// environment variables always win.
func Load() (Config, error) {
	loadEnvFile()

	cfg := Config{
		AppPort: getEnv("PORT", "8002"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Debug:   getEnvBool("LOG_DEBUG", false),

		StoreDriver:   getEnv("STORE_DRIVER", StoreDriverMongo),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "sampleapp"),
		TestsSeedFile: os.Getenv("TESTS_SEED_FILE"),

		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		SessionTTL:    getEnvDuration("SESSION_TTL", time.Hour),
		SessionHeader: getEnv("SESSION_HEADER", "Cookie"),

		RefreshWorkers:   getEnvInt("REFRESH_WORKERS", 2),
		RefreshQueueSize: getEnvInt("REFRESH_QUEUE_SIZE", 256),
		RefreshTimeout:   getEnvDuration("REFRESH_TIMEOUT", 5*time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      getEnvDuration("LOGIN_WINDOW", 15*time.Minute),
		LoginLock:        getEnvDuration("LOGIN_LOCK", 10*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.AppPort == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}

	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo store"))
		}
		if c.TestsSeedFile != "" {
			errs = append(errs, errors.New("TESTS_SEED_FILE only applies to STORE_DRIVER=memory"))
		}
	case StoreDriverMemory:
		if c.GinMode == "release" {
			errs = append(errs, errors.New("STORE_DRIVER=memory is not allowed in release mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.SessionHeader == "" {
		errs = append(errs, errors.New("SESSION_HEADER must not be empty"))
	}
	if c.RefreshWorkers < 1 || c.RefreshQueueSize < 1 || c.RefreshTimeout <= 0 {
		errs = append(errs, errors.New("REFRESH_WORKERS, REFRESH_QUEUE_SIZE and REFRESH_TIMEOUT must be positive"))
	}
	if c.LoginMaxAttempts < 1 || c.LoginWindow <= 0 || c.LoginLock <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS, LOGIN_WINDOW and LOGIN_LOCK must be positive"))
	}

	return errors.Join(errs...)
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
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
