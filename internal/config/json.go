package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avolkovs/paintrack/internal/flagx"
	"github.com/avolkovs/paintrack/internal/timex"
)

// JsonConfig is the JSON-file shape of Config. Interval fields use
// timex.Duration so the file may say "10s" or integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseEngine string         `json:"database_engine"`
	DatabaseDSN    string         `json:"database_dsn"`
	StorageBackend string         `json:"storage_backend"`
	PhotoDir       string         `json:"photo_dir"`
	OpTimeout      timex.Duration `json:"op_timeout"`
	AllowHEIC      bool           `json:"allow_heic"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags, if any. An unreadable or invalid file panics: starting with
// half a config is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseEngine = c.DatabaseEngine
	config.DatabaseDSN = c.DatabaseDSN
	config.StorageBackend = c.StorageBackend
	config.PhotoDir = c.PhotoDir
	config.OpTimeout = time.Duration(c.OpTimeout.Duration)
	config.AllowHEIC = c.AllowHEIC
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
