// Package config loads the service configuration from a YAML file and lets
// environment variables (optionally read from a .env file) override it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
var DefaultPath = filepath.Join("internal", "backoffice", "config", "config.yaml")

// Config is the whole service configuration. Keys double as environment
// variable names.
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	RedisAddress string `yaml:"REDIS_ADDRESS"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	AuditGroupID string   `yaml:"AUDIT_GROUP_ID"`

	JWTSecret string `yaml:"JWT_SECRET"`

	StorageProvider   string `yaml:"STORAGE_PROVIDER"`
	StorageRoot       string `yaml:"STORAGE_ROOT"`
	StoragePublicURL  string `yaml:"STORAGE_PUBLIC_URL"`
	GCSBucket         string `yaml:"GCS_BUCKET"`
	GCSCredentials    string `yaml:"GCS_CREDENTIALS_JSON"`
	CompanyLogoBucket string `yaml:"COMPANY_LOGO_BUCKET"`
	ConsortiumBucket  string `yaml:"CONSORTIUM_LOGO_BUCKET"`
	ProjectCoverDir   string `yaml:"PROJECT_COVER_BUCKET"`
	WorkerPhotoDir    string `yaml:"WORKER_PHOTO_BUCKET"`
	SafetyTalkDir     string `yaml:"SAFETY_TALK_BUCKET"`
	DefaultLogoURL    string `yaml:"DEFAULT_LOGO_URL"`
	DefaultPhotoURL   string `yaml:"DEFAULT_PHOTO_URL"`
	MaxUploadBytes    int64  `yaml:"MAX_UPLOAD_BYTES"`
	MaxImageWidth     int    `yaml:"MAX_IMAGE_WIDTH"`

	LookupCacheTTL time.Duration `yaml:"LOOKUP_CACHE_TTL"`
}

// Defaults returns the configuration used when neither the file nor the
// environment set a value.
func Defaults() Config {
	return Config{
		GRPCPort:          50051,
		HTTPPort:          8080,
		DBDriver:          "postgres",
		DBHost:            "localhost",
		DBPort:            5432,
		DBSSLMode:         "disable",
		Topic:             "backoffice.events",
		AuditGroupID:      "backoffice-audit",
		StorageProvider:   "local",
		StorageRoot:       filepath.Join("storage", "app", "public"),
		StoragePublicURL:  "/storage",
		CompanyLogoBucket: "companies_logos",
		ConsortiumBucket:  "consortia_logos",
		ProjectCoverDir:   "projects/covers",
		WorkerPhotoDir:    "workers/photos",
		SafetyTalkDir:     "safety_talks/evidence",
		DefaultLogoURL:    "/img/default-logo.png",
		DefaultPhotoURL:   "/img/default-avatar.png",
		MaxUploadBytes:    2 * 1024 * 1024,
		MaxImageWidth:     1600,
		LookupCacheTTL:    time.Hour,
	}
}

// Load reads the YAML file at path (CONFIG_PATH or DefaultPath when empty),
// applies it over Defaults, then applies environment overrides. A missing
// file is not an error: the environment alone can configure the service.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageProvider {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the gcs storage provider")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.StorageProvider)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.LookupCacheTTL <= 0 {
		return fmt.Errorf("LOOKUP_CACHE_TTL must be positive")
	}
	return nil
}

// applyEnv overrides every field whose yaml key is present in the
// environment. Lists are comma separated; durations use time.ParseDuration.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		field := v.Field(i)
		switch field.Interface().(type) {
		case string:
			field.SetString(raw)
		case int, int64:
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			field.SetInt(n)
		case time.Duration:
			d, err := time.ParseDuration(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			field.SetInt(int64(d))
		case []string:
			var parts []string
			for _, p := range strings.Split(raw, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
	return nil
}
