package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends understood by services.NewStorageService.
const (
	BackendMinio = "minio"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendLocal = "local"
)

// Key naming policies understood by services.NewDefaultKeyGenerator.
const (
	KeyPolicyMicro  = "micro"
	KeyPolicySecond = "second"
)

// callers become literal route segments, so gin wildcards (: and *) are excluded
var callerPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Config holds the application configuration
type Config struct {
	Env        string   `env:"APP_ENV" envDefault:"dev"`
	LogLevel   string   `env:"LOG_LEVEL" envDefault:"info"`
	ServerPort string   `env:"SERVER_PORT" envDefault:"3003"`
	Callers    []string `env:"CALLERS" envDefault:"thongpham,terrence" envSeparator:","`

	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"minio"`
	Bucket         string        `env:"STORAGE_BUCKET" envDefault:"lob-webhooks"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"30s"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	S3Prefix       string `env:"S3_PREFIX"`
	S3AccessKeyID  string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"S3_SECRET_ACCESS_KEY"`

	LocalStoreDir string `env:"LOCAL_STORE_DIR" envDefault:"./data"`

	KeyPolicy       string `env:"KEY_POLICY" envDefault:"micro"`
	KeyUniqueSuffix bool   `env:"KEY_UNIQUE_SUFFIX" envDefault:"false"`
	KeyTimezone     string `env:"KEY_TIMEZONE" envDefault:"UTC"`

	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	SanitizeErrors  bool          `env:"SANITIZE_ERRORS" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file, then parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	callers := make([]string, 0, len(c.Callers))
	for _, caller := range c.Callers {
		if trimmed := strings.TrimSpace(caller); trimmed != "" {
			callers = append(callers, trimmed)
		}
	}
	c.Callers = callers
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.KeyPolicy = strings.ToLower(strings.TrimSpace(c.KeyPolicy))
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if len(c.Callers) == 0 {
		return errors.New("config: CALLERS must name at least one caller")
	}
	seen := make(map[string]struct{}, len(c.Callers))
	for _, caller := range c.Callers {
		if !callerPattern.MatchString(caller) || caller == "." || caller == ".." {
			return fmt.Errorf("config: invalid caller name %q", caller)
		}
		if _, dup := seen[caller]; dup {
			return fmt.Errorf("config: duplicate caller %q", caller)
		}
		seen[caller] = struct{}{}
	}

	switch c.StorageBackend {
	case BackendMinio, BackendS3, BackendGCS:
		if c.Bucket == "" {
			return fmt.Errorf("config: STORAGE_BUCKET is required for backend %q", c.StorageBackend)
		}
	case BackendLocal:
		if c.LocalStoreDir == "" {
			return errors.New("config: LOCAL_STORE_DIR is required for the local backend")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.KeyPolicy {
	case KeyPolicyMicro, KeyPolicySecond:
	default:
		return fmt.Errorf("config: unknown KEY_POLICY %q", c.KeyPolicy)
	}

	if _, err := time.LoadLocation(c.KeyTimezone); err != nil {
		return fmt.Errorf("config: KEY_TIMEZONE: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("config: MAX_BODY_BYTES must be positive")
	}
	return nil
}

// Location returns the time zone keys are partitioned in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.KeyTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr normalizes the listen address.
func (c *Config) Addr() string {
	if c.ServerPort == "" {
		return ":3003"
	}
	if c.ServerPort[0] == ':' {
		return c.ServerPort
	}
	return ":" + c.ServerPort
}
