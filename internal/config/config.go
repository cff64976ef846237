// Package config holds the run configuration shared by the bulk operation
// binaries, with environment fallback for connection settings.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/butskristof/redis-tools/internal/cluster"
)

// Environment variables consulted when the corresponding flag is omitted.
// Explicit flags always take precedence.
const (
	EnvHost = "REDIS_HOST"
	EnvPort = "REDIS_PORT"
	EnvAuth = "REDIS_AUTH"
)

// Config carries the settings recognized uniformly across the operations.
type Config struct {
	Host      string
	Port      int
	Auth      string
	BatchSize int
	Count     int
	ScanCount int
	Timeout   time.Duration
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Host:      "localhost",
		Port:      6379,
		BatchSize: 1000,
		Count:     10000,
		ScanCount: 1000,
		Timeout:   5 * time.Second,
	}
}

// Endpoint returns the seed endpoint the run starts from.
func (c Config) Endpoint() cluster.Endpoint {
	return cluster.Endpoint{Host: c.Host, Port: c.Port, Auth: c.Auth}
}

// EnvString returns the environment value for key, or def when unset.
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt returns the environment value for key as an integer, or def when
// unset or unparsable.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
