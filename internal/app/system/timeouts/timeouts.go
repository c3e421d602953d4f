// Package timeouts holds the process-wide time limits for database calls,
// health checks, outbound mail and background jobs.
//
// Defaults apply until ConfigureFromEnv or Configure overrides them.
package timeouts

import (
	"os"
	"sync"
	"time"
)

// Default timeout values.
const (
	DefaultPing   = 2 * time.Second  // health checks
	DefaultShort  = 5 * time.Second  // single-document reads
	DefaultMedium = 10 * time.Second // handler work, dashboard fan-out
	DefaultLong   = 30 * time.Second // outbound mail
	DefaultBatch  = 60 * time.Second // background jobs
)

// Config holds timeout values. Zero fields leave the current value alone.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

// Ping bounds a health check round trip.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short bounds a single store lookup.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium bounds handler work that fans out to several queries.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Long bounds one outbound notification email.
func Long() time.Duration { return get(func(c Config) time.Duration { return c.Long }) }

// Batch bounds one run of a background job.
func Batch() time.Duration { return get(func(c Config) time.Duration { return c.Batch }) }

// Configure overrides the positive fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range fields(&cur, cfg) {
		if f.val > 0 {
			*f.dst = f.val
		}
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns the values in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM,
// TIMEOUT_LONG and TIMEOUT_BATCH (Go duration syntax). Unparseable or
// non-positive values are ignored. It returns how many were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, f := range fields(&cfg, Config{}) {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

type field struct {
	env string
	dst *time.Duration
	val time.Duration
}

// fields pairs each slot of dst with its env name and the matching value in src.
func fields(dst *Config, src Config) []field {
	return []field{
		{"TIMEOUT_PING", &dst.Ping, src.Ping},
		{"TIMEOUT_SHORT", &dst.Short, src.Short},
		{"TIMEOUT_MEDIUM", &dst.Medium, src.Medium},
		{"TIMEOUT_LONG", &dst.Long, src.Long},
		{"TIMEOUT_BATCH", &dst.Batch, src.Batch},
	}
}
