// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS and request limits.
// Everything specific to the content site lives here and is passed to every
// lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // signs session cookies; must be strong in production
	SessionName   string // cookie name
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// CSRFKey signs CSRF tokens for session-authenticated admin requests.
	CSRFKey string

	// APIKey enables "Authorization: Bearer <key>" access to the admin API.
	// Empty disables key access.
	APIKey string

	// Public form submissions
	FormRateLimitMax    int           // submissions per IP per window (default: 5)
	FormRateLimitWindow time.Duration // trailing window (default: 15m)
	FormCORSOrigins     []string      // origins allowed to post forms; empty allows any

	// TrustedProxies are the reverse proxies (IPs or CIDRs) allowed to report
	// the client address in X-Forwarded-For. Empty means RemoteAddr is used.
	TrustedProxies []string

	// Published-content cache. Blank RedisURL disables caching.
	RedisURL        string
	ContentCacheTTL time.Duration

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// NotifyEmail receives a message for each new submission. Empty disables it.
	NotifyEmail string

	// BaseURL is used for links in notification emails.
	BaseURL string

	// SubmissionRetention is how long archived submissions are kept. Zero keeps them forever.
	SubmissionRetention time.Duration

	// Admin seeding configuration
	SeedAdminEmail    string
	SeedAdminName     string
	SeedAdminPassword string
	SeedFile          string // YAML fixture applied at startup when set
}
