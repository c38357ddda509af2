package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkovs/paintrack/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   database engine: "sqlite" or "postgres"
//	-d string   database DSN
//	-s string   storage backend: "local" or "s3"
//	-f string   photos directory (local backend)
//	-t int      operation timeout, seconds
//	-heic       allow image/heic uploads
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-o string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-d", "-s", "-f", "-t", "-heic", "-u", "-p", "-b", "-g", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseEngine, "e", config.DatabaseEngine, "database engine (sqlite|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend (local|s3)")
	fs.StringVar(&config.PhotoDir, "f", config.PhotoDir, "photos directory")

	opTimeout := fs.Int("t", int(config.OpTimeout.Seconds()), "operation timeout (in seconds)")
	fs.BoolVar(&config.AllowHEIC, "heic", config.AllowHEIC, "allow image/heic uploads")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "o", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.OpTimeout = time.Duration(*opTimeout) * time.Second
}
