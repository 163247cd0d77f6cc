package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/solcraft/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-t string   store type: memory, postgres or pebble
//	-d string   PostgreSQL DSN
//	-f string   pebble data directory
//	-i string   engine program id
//	-m int      request signature max age, seconds
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-f", "-i", "-m", "-l", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.StoreType, "t", config.StoreType, "ledger store type (memory, postgres, pebble)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PebbleDir, "f", config.PebbleDir, "pebble data directory")
	fs.StringVar(&config.ProgramID, "i", config.ProgramID, "engine program id")

	signatureMaxAge := fs.Int("m", int(config.SignatureMaxAge.Seconds()), "request signature max age (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 metadata bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SignatureMaxAge = time.Duration(*signatureMaxAge) * time.Second
}
