// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Defaults for public form submissions.
const (
	DefaultMax    = 5
	DefaultWindow = 15 * time.Minute
)

// Counter counts persisted submissions from ip at or after since.
// The submissions store implements it; the limiter keeps no state of its own.
type Counter interface {
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error)
}

// Limiter is a trailing-window limit on submissions per source IP.
type Limiter struct {
	counter Counter
	max     int
	window  time.Duration
	now     func() time.Time
}

// New creates a Limiter allowing max submissions per window.
// Non-positive values fall back to the defaults.
func New(counter Counter, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{counter: counter, max: max, window: window, now: time.Now}
}

// Max returns the configured submissions per window.
func (l *Limiter) Max() int { return l.max }

// Window returns the configured trailing window.
func (l *Limiter) Window() time.Duration { return l.window }

// CheckLimit reports whether ip may submit now. Store errors are returned
// to the caller rather than treated as allowed.
func (l *Limiter) CheckLimit(ctx context.Context, ip string) (bool, error) {
	ip = strings.TrimSpace(ip)
	since := l.now().Add(-l.window)
	n, err := l.counter.CountByIPSince(ctx, ip, since)
	if err != nil {
		return false, err
	}
	return n < int64(l.max), nil
}
