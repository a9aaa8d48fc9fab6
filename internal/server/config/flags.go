package config

import (
	"flag"
	"os"
	"time"

	"github.com/danial-baraty/express-todo-api/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-d string   PostgreSQL DSN
//	-r string   Redis host:port
//	-s string   JWT HMAC secret key
//	-t int      session token lifetime, minutes
//	-c int      cache entry lifetime, minutes
//
// Duration flags are accepted as integers in minutes and converted to
// time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-t", "-c"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT signing secret")

	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token lifetime (in minutes)")
	cacheTTL := fs.Int("c", int(config.CacheTTL.Minutes()), "cache entry lifetime (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
	config.CacheTTL = time.Duration(*cacheTTL) * time.Minute
}
