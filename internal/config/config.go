package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	applog "tiflisi/internal/log"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DBDSN        string `envconfig:"DB_DSN" default:"tiflisi.db"` // sqlite file in project root
	MediaDir     string `envconfig:"MEDIA_DIR" default:"./web/media"`
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	LogFile      string `envconfig:"LOG_FILE" default:"./tiflisi.log"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"false"`

	// sqlite | redis | firestore | memory
	StorageBackend   string        `envconfig:"STORAGE_BACKEND" default:"sqlite"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"720h"` // idle carts/favorites expire
	FirestoreProject string        `envconfig:"FIRESTORE_PROJECT_ID"`
	GCPCredentials   string        `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`

	// local | gcs
	MediaBackend string `envconfig:"MEDIA_BACKEND" default:"local"`
	GCSBucket    string `envconfig:"GCS_BUCKET"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	switch cfg.StorageBackend {
	case "sqlite", "redis", "firestore", "memory":
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	switch cfg.MediaBackend {
	case "local":
	case "gcs":
		if cfg.GCSBucket == "" {
			return Config{}, fmt.Errorf("MEDIA_BACKEND=gcs requires GCS_BUCKET")
		}
	default:
		return Config{}, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
	if cfg.StorageBackend == "firestore" && cfg.FirestoreProject == "" {
		return Config{}, fmt.Errorf("STORAGE_BACKEND=firestore requires FIRESTORE_PROJECT_ID")
	}

	applog.Info(nil, "config.load", map[string]any{
		"port":            cfg.Port,
		"db_dsn":          cfg.DBDSN,
		"media_dir":       cfg.MediaDir,
		"log_file":        cfg.LogFile,
		"storage_backend": cfg.StorageBackend,
		"media_backend":   cfg.MediaBackend,
		"stylist_enabled": cfg.GeminiAPIKey != "",
	})
	return cfg, nil
}
