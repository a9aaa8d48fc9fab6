package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// Recognized variables:
//
//	ADDRESS          HTTP bind address (e.g. ":5000")
//	DATABASE_DSN     PostgreSQL DSN
//	REDIS_ADDR       Redis host:port
//	JWT_SECRET       HMAC signing secret
//	TOKEN_TTL        session token lifetime (Go duration, e.g. "1h")
//	CACHE_TTL        cached user snapshot lifetime (Go duration)
//	CONNECT_TIMEOUT  startup connection timeout (Go duration)
//	SECURE_COOKIE    "true" to mark the session cookie Secure
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.JWTSecret = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenTTL = d
		}
	}
	if v, ok := os.LookupEnv("CACHE_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.CacheTTL = d
		}
	}
	if v, ok := os.LookupEnv("CONNECT_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.ConnectTimeout = d
		}
	}
	if v, ok := os.LookupEnv("SECURE_COOKIE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.SecureCookie = b
		}
	}
}
