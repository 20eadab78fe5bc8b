package config

import (
	"flag"
	"os"
	"time"

	"orderstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-n string   orders table name
//	-m string   storage mode ("s3" or "blob")
//	-b string   S3 bucket ARN
//	-k string   bucket encryption key ARN
//	-r string   base role ARN for credential minting
//	-g string   AWS region
//	-t int      minted credential lifetime, minutes
//	-o string   allowed cross-origin value
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The duration
// flag is accepted as an integer in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-n", "-m", "-b", "-k", "-r", "-g", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.OrdersTable, "n", config.OrdersTable, "orders table name")
	fs.StringVar(&config.StorageMode, "m", config.StorageMode, "asset storage mode (s3 or blob)")
	fs.StringVar(&config.BucketARN, "b", config.BucketARN, "S3 bucket ARN")
	fs.StringVar(&config.BucketEncryptionKeyARN, "k", config.BucketEncryptionKeyARN, "bucket encryption key ARN")
	fs.StringVar(&config.BaseRoleARN, "r", config.BaseRoleARN, "base role ARN")
	fs.StringVar(&config.Region, "g", config.Region, "AWS region")

	tokenDuration := fs.Int("t", int(config.TokenDuration.Minutes()), "token duration (in minutes)")

	fs.StringVar(&config.AllowedOrigin, "o", config.AllowedOrigin, "allowed cross-origin value")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenDuration = time.Duration(*tokenDuration) * time.Minute
}
