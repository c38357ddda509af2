// Package config handles configuration for the tracker process, including
// defaults, JSON overlay, and command-line flags. Both backends (relational
// engine and blob store) are selected here once at startup and never
// switched at runtime.
package config

import "time"

// Config holds runtime settings for the persistence core.
//
// Fields:
//   - DatabaseEngine: "sqlite" (embedded) or "postgres" (client/server).
//   - DatabaseDSN: DSN for the selected engine.
//   - StorageBackend: "local" (photos directory) or "s3" (object store).
//   - PhotoDir: directory for the local blob store.
//   - OpTimeout: upper bound for one persistence operation, storage included.
//   - AllowHEIC: admit image/heic uploads (mobile deployment variant).
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	DatabaseEngine string
	DatabaseDSN    string
	StorageBackend string
	PhotoDir       string
	OpTimeout      time.Duration
	AllowHEIC      bool
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseEngine = "sqlite"
	c.DatabaseDSN = "file:paintrack.db"
	c.StorageBackend = "local"
	c.PhotoDir = "photos"
	c.OpTimeout = 10 * time.Second
	c.AllowHEIC = false
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "photos"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
