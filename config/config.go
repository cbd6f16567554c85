package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultJWTSecret is only accepted outside production.
const DefaultJWTSecret = "foodgram-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Env       Environment     `koanf:"env"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	CORSOrigins     string        `koanf:"cors_origins"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AllowedOrigins splits the comma separated CORS origin list.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // postgres or sqlite
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	SSLMode      string `koanf:"ssl_mode"`
	Path         string `koanf:"path"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

// DSN returns the driver specific connection string.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type StorageConfig struct {
	Backend  string `koanf:"backend"` // local or s3
	LocalDir string `koanf:"local_dir"`
	BaseURL  string `koanf:"base_url"`
	Bucket   string `koanf:"bucket"`
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type RateLimitConfig struct {
	RecipesPerHour int `koanf:"recipes_per_hour"`
}

func defaultConfig() *Config {
	return &Config{
		Env: GetEnvironment(),
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			CORSOrigins:     "http://localhost:3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Name:         "foodgram",
			SSLMode:      "disable",
			Path:         "foodgram.db",
			MaxOpenConns: 25,
		},
		Redis: RedisConfig{Port: "6379"},
		JWT: JWTConfig{
			Secret: DefaultJWTSecret,
			TTL:    24 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:  "local",
			LocalDir: "media",
			BaseURL:  "/media",
			Region:   "us-east-1",
		},
		Log: LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			RecipesPerHour: 30,
		},
	}
}

// envKeys maps environment variables onto koanf paths. Unlisted variables are
// ignored.
var envKeys = map[string]string{
	"SERVER_HOST":                 "server.host",
	"SERVER_PORT":                 "server.port",
	"CORS_ALLOWED_ORIGINS":        "server.cors_origins",
	"AUTO_MIGRATE":                "server.auto_migrate",
	"SHUTDOWN_TIMEOUT":            "server.shutdown_timeout",
	"DB_DRIVER":                   "db.driver",
	"DB_HOST":                     "db.host",
	"DB_PORT":                     "db.port",
	"DB_USER":                     "db.user",
	"DB_PASSWORD":                 "db.password",
	"DB_NAME":                     "db.name",
	"DB_SSL_MODE":                 "db.ssl_mode",
	"DB_PATH":                     "db.path",
	"DB_MAX_OPEN_CONNS":           "db.max_open_conns",
	"REDIS_URL":                   "redis.url",
	"REDIS_HOST":                  "redis.host",
	"REDIS_PORT":                  "redis.port",
	"REDIS_PASSWORD":              "redis.password",
	"REDIS_DB":                    "redis.db",
	"JWT_SECRET":                  "jwt.secret",
	"JWT_TTL":                     "jwt.ttl",
	"STORAGE_BACKEND":             "storage.backend",
	"MEDIA_ROOT":                  "storage.local_dir",
	"MEDIA_URL":                   "storage.base_url",
	"S3_BUCKET_NAME":              "storage.bucket",
	"AWS_REGION":                  "storage.region",
	"S3_ENDPOINT":                 "storage.endpoint",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"RATE_LIMIT_RECIPES_PER_HOUR": "rate_limit.recipes_per_hour",
}

// secretKeys are read from Docker secrets files and override the environment.
var secretKeys = map[string]string{
	"db_user":        "db.user",
	"db_password":    "db.password",
	"jwt_secret":     "jwt.secret",
	"redis_password": "redis.password",
}

// LoadConfig layers defaults, environment variables and Docker secrets, then
// validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := loadSecrets(k, secretsDir()); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Env = GetEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func envTransformFunc(key string) string {
	return envKeys[key]
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// loadSecrets sets every secret file present in dir. Missing files are skipped.
func loadSecrets(k *koanf.Koanf, dir string) error {
	for name, key := range secretKeys {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
