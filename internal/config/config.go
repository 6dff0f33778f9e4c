// Package config loads the keychain's settings from the environment, optionally seeded by the
// nearest .env file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost and ServerPort are where the bridge API listens.
	ServerHost string
	ServerPort int

	// DBDriver is "sqlite", "postgres" or "mysql". For sqlite DBConnectionString is a file path.
	DBDriver             string
	DBConnectionString   string
	DBMaxOpenConnections int
	DBMaxIdleConnections int
	DBConnMaxLifetime    time.Duration

	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// VaultNamespace partitions the store and prefixes every entity tag. It must not change
	// once entries exist, or they stop decrypting.
	VaultNamespace string
	// VaultAlgorithm is the AEAD used to seal new entries ("aes-gcm" or "chacha20-poly1305").
	VaultAlgorithm string
	// VaultStrictAvailability makes set and get fail when the cipher is unavailable instead of
	// only logging it.
	VaultStrictAvailability bool
	// VaultWorkers bounds how many vault operations the dispatcher runs at once.
	VaultWorkers int

	// KeyProvider selects where master keys come from ("env" or "keyring").
	KeyProvider string
	// MasterKeys is the comma-separated id:base64 list read by the env provider.
	MasterKeys        string
	ActiveMasterKeyID string

	// Per client IP.
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsEnabled   bool
	MetricsNamespace string
	MetricsPort      int

	// KMSProvider names the KMS behind KMSKeyURI. When KMSKeyURI is set every MASTER_KEYS
	// value is a KMS ciphertext.
	KMSProvider string
	KMSKeyURI   string
}

// Load reads the configuration, applying defaults for anything unset.
func Load() *Config {
	loadDotEnv()

	return &Config{
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		DBDriver:             env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "keychain.db"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		LogLevel: env.GetString("LOG_LEVEL", "info"),

		VaultNamespace:          env.GetString("VAULT_NAMESPACE", "RN_KEYCHAIN"),
		VaultAlgorithm:          env.GetString("VAULT_ALGORITHM", "aes-gcm"),
		VaultStrictAvailability: env.GetBool("VAULT_STRICT_AVAILABILITY", false),
		VaultWorkers:            env.GetInt("VAULT_WORKERS", 8),

		KeyProvider:       env.GetString("KEY_PROVIDER", "env"),
		MasterKeys:        env.GetString("MASTER_KEYS", ""),
		ActiveMasterKeyID: env.GetString("ACTIVE_MASTER_KEY_ID", ""),

		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "keychain"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),
	}
}

// Validate rejects settings the container could only fail on later, such as an unknown driver
// or a KMS provider without a key URI. Master keys are not checked here; a missing key leaves
// the vault running with an unavailable cipher.
func (c *Config) Validate() error {
	port := []validation.Rule{validation.Required, validation.Min(1), validation.Max(65535)}

	return validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, port...),
		validation.Field(&c.DBDriver, validation.Required, validation.In("sqlite", "postgres", "mysql")),
		validation.Field(&c.DBConnectionString, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.VaultNamespace, validation.Required),
		validation.Field(&c.VaultAlgorithm, validation.Required, validation.In("aes-gcm", "chacha20-poly1305")),
		validation.Field(&c.VaultWorkers, validation.Required, validation.Min(1)),
		validation.Field(&c.KeyProvider, validation.In("env", "keyring")),
		validation.Field(&c.RateLimitRequestsPerSec, validation.When(c.RateLimitEnabled, validation.Required)),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitEnabled, validation.Required)),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
		validation.Field(&c.MetricsPort, validation.When(c.MetricsEnabled, port...)),
		validation.Field(&c.KMSKeyURI, validation.When(c.KMSProvider != "", validation.Required)),
	)
}

// GetGinMode maps the log level to a Gin mode: debug logging runs Gin in debug mode.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
