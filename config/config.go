package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the dashboard reads from the environment
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	Environment    string        `envconfig:"ENVIRONMENT" default:"development"`
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:3000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`

	// Wizard drafts
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	DraftTTL      time.Duration `envconfig:"DRAFT_TTL" default:"30m"`
	DraftStore    string        `envconfig:"DRAFT_STORE" default:"memory"` // memory, redis or mongo
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/"`
	MongoDB       string        `envconfig:"MONGO_DB" default:"merchant_dashboard"`

	// Staged product images
	StorageDriver  string `envconfig:"STORAGE_DRIVER" default:"local"` // local or s3
	LocalUploadDir string `envconfig:"LOCAL_UPLOAD_DIR" default:"./storage/drafts"`
	S3Region       string `envconfig:"S3_REGION"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Prefix       string `envconfig:"S3_PREFIX" default:"drafts"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	// Staged images older than this are swept; must outlive DraftTTL
	StagedImageMaxAge     time.Duration `envconfig:"STAGED_IMAGE_MAX_AGE" default:"24h"`
	StagedImageSweepEvery time.Duration `envconfig:"STAGED_IMAGE_SWEEP_INTERVAL" default:"1h"`
}

// Env returns the parsed deployment environment
func (c *Config) Env() Environment {
	return ParseEnvironment(c.Environment)
}

// LoadConfig loads environment variables, reading a .env file first when one exists
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if cfg.SessionSecret == "" {
		if cfg.Env().IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = "dev-session-secret"
	}
	if cfg.StagedImageMaxAge <= cfg.DraftTTL {
		return nil, fmt.Errorf("STAGED_IMAGE_MAX_AGE (%s) must be longer than DRAFT_TTL (%s)", cfg.StagedImageMaxAge, cfg.DraftTTL)
	}
	if cfg.StagedImageSweepEvery <= 0 {
		return nil, fmt.Errorf("STAGED_IMAGE_SWEEP_INTERVAL must be positive")
	}
	return &cfg, nil
}
