package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/flagx"
)

// parseFlags overlays command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables the endpoint
//	-storage    "postgres" or "memory"
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r uint     rent per allocated byte
//	-i          enable the per-sender capsule index (-i, -i true, -i=false)
//	-l string   log level
//	-archive    archive events to S3
//	-u, -p, -b, -g, -e   S3 user, password, bucket, region and endpoint
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-m", "-storage", "-d", "-s", "-t", "-r", "-i", "-l",
		"-archive", "-u", "-p", "-b", "-g", "-e",
	}, "-i", "-archive")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrMetrics, "m", config.EndpointAddrMetrics, "address and port for /metrics")
	fs.StringVar(&config.Storage, "storage", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.Uint64Var(&config.RentPerByte, "r", config.RentPerByte, "rent per allocated byte")
	fs.BoolVar(&config.UserIndexEnabled, "i", config.UserIndexEnabled, "enable per-sender capsule index")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.BoolVar(&config.EventArchiveEnabled, "archive", config.EventArchiveEnabled, "archive events to S3")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only when given, so a sub-minute value from a file survives
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		}
	})
	return nil
}
