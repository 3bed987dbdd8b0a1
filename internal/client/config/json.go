package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/otpkeeper/internal/flagx"
	"github.com/dmitrijs2005/otpkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Only fields present in the
// file are copied into the runtime Config.
type JsonConfig struct {
	DataDir         string          `json:"data_dir"`
	DatabaseFile    string          `json:"database_file"`
	RefreshInterval *timex.Duration `json:"refresh_interval"`
	LogLevel        string          `json:"log_level"`
	LogFormat       string          `json:"log_format"`
	RemoteKind      string          `json:"remote"`
	RemoteTimeout   *timex.Duration `json:"remote_timeout"`
	PostgresDSN     string          `json:"postgres_dsn"`

	S3 *struct {
		Bucket         string `json:"bucket"`
		Region         string `json:"region"`
		Endpoint       string `json:"endpoint"`
		AccessKeyID    string `json:"access_key_id"`
		SecretKey      string `json:"secret_key"`
		Prefix         string `json:"prefix"`
		ForcePathStyle bool   `json:"force_path_style"`
	} `json:"s3"`

	Mongo *struct {
		URI        string `json:"uri"`
		Database   string `json:"database"`
		Collection string `json:"collection"`
	} `json:"mongo"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// -c/-config in args or $OTPKEEPER_CONFIG. Without either it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseFile, jc.DatabaseFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.RemoteKind, jc.RemoteKind)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	if jc.RefreshInterval != nil {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.RemoteTimeout != nil {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
	if s3 := jc.S3; s3 != nil {
		setString(&cfg.S3.Bucket, s3.Bucket)
		setString(&cfg.S3.Region, s3.Region)
		setString(&cfg.S3.Endpoint, s3.Endpoint)
		setString(&cfg.S3.AccessKeyID, s3.AccessKeyID)
		setString(&cfg.S3.SecretKey, s3.SecretKey)
		setString(&cfg.S3.Prefix, s3.Prefix)
		cfg.S3.ForcePathStyle = cfg.S3.ForcePathStyle || s3.ForcePathStyle
	}
	if m := jc.Mongo; m != nil {
		setString(&cfg.Mongo.URI, m.URI)
		setString(&cfg.Mongo.Database, m.Database)
		setString(&cfg.Mongo.Collection, m.Collection)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
