package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/otpkeeper/internal/filex"
)

// Remote store kinds.
const (
	RemoteNone     = "none"
	RemoteS3       = "s3"
	RemoteMongo    = "mongo"
	RemotePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type S3Config struct {
	Bucket         string `env:"BUCKET"`
	Region         string `env:"REGION"`
	Endpoint       string `env:"ENDPOINT"`
	AccessKeyID    string `env:"ACCESS_KEY_ID"`
	SecretKey      string `env:"SECRET_KEY"`
	Prefix         string `env:"PREFIX"`
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`
}

type MongoConfig struct {
	URI        string `env:"URI"`
	Database   string `env:"DATABASE"`
	Collection string `env:"COLLECTION"`
}

// Config holds runtime settings for the otpkeeper CLI.
type Config struct {
	DataDir         string        `env:"DATA_DIR"`
	DatabaseFile    string        `env:"DATABASE_FILE"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`

	RemoteKind    string        `env:"REMOTE"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT"`

	S3          S3Config    `envPrefix:"S3_"`
	Mongo       MongoConfig `envPrefix:"MONGO_"`
	PostgresDSN string      `env:"POSTGRES_DSN"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = filex.DefaultDataDir()
	c.DatabaseFile = "otpkeeper.db"
	c.RefreshInterval = time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RemoteKind = RemoteNone
	c.RemoteTimeout = 15 * time.Second
	c.S3.Prefix = "otpkeeper"
	c.Mongo.Database = "otpkeeper"
	c.Mongo.Collection = "vaults"
}

// DatabasePath is DatabaseFile resolved against DataDir. Absolute paths and
// ":memory:" are returned unchanged.
func (c *Config) DatabasePath() string {
	if c.DatabaseFile == ":memory:" || filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// Validate checks the settings the selected remote needs.
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidConfig)
	}
	switch c.RemoteKind {
	case "", RemoteNone:
	case RemoteS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("%w: s3 needs bucket and region", ErrInvalidConfig)
		}
	case RemoteMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return fmt.Errorf("%w: mongo needs uri, database and collection", ErrInvalidConfig)
		}
	case RemotePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres needs a dsn", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown remote %q", ErrInvalidConfig, c.RemoteKind)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
