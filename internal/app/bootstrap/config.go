// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/ratelimit"
	"github.com/dalemusser/stratasite/internal/app/system/contentcache"
	"github.com/dalemusser/stratasite/internal/app/system/network"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATASITE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_url, etc.
//   - Environment variables: STRATASITE_MONGO_URI, STRATASITE_REDIS_URL, etc.
//   - Command-line flags: --mongo_uri, --redis_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratasite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "stratasite-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},
	{Name: "api_key", Default: "", Desc: "API key for admin API access (leave empty to disable API key auth)"},

	// Public forms
	{Name: "form_rate_limit_max", Default: ratelimit.DefaultMax, Desc: "Form submissions allowed per IP per window"},
	{Name: "form_rate_limit_window", Default: "15m", Desc: "Trailing window for the form rate limit"},
	{Name: "form_cors_origins", Default: "", Desc: "Comma-separated origins allowed to post forms (blank allows any)"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is believed (blank trusts none)"},

	// Content cache
	{Name: "redis_url", Default: "", Desc: "Redis URL for the published-content cache (blank disables caching)"},
	{Name: "content_cache_ttl", Default: "10m", Desc: "How long published entities stay cached"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StrataSite", Desc: "From display name"},
	{Name: "notify_email", Default: "", Desc: "Address notified of new form submissions (blank disables)"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL for links in emails"},

	{Name: "submission_retention", Default: "0", Desc: "Delete archived submissions older than this (0 keeps them)"},

	// Seeding
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to create on startup"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of admin user to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded admin user"},
	{Name: "seed_file", Default: "", Desc: "YAML fixture of categories and pages applied at startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence,
// flags > env (WAFFLE_* for core, STRATASITE_* for app) > config files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),
		APIKey:  appValues.String("api_key"),

		FormRateLimitMax:    appValues.Int("form_rate_limit_max"),
		FormRateLimitWindow: appValues.Duration("form_rate_limit_window", ratelimit.DefaultWindow),
		FormCORSOrigins:     splitList(appValues.String("form_cors_origins")),
		TrustedProxies:      splitList(appValues.String("trusted_proxies")),

		RedisURL:        appValues.String("redis_url"),
		ContentCacheTTL: appValues.Duration("content_cache_ttl", contentcache.DefaultTTL),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		NotifyEmail:  appValues.String("notify_email"),
		BaseURL:      appValues.String("base_url"),

		SubmissionRetention: appValues.Duration("submission_retention", 0),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedFile:          appValues.String("seed_file"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.FormRateLimitMax <= 0 {
		return fmt.Errorf("form_rate_limit_max must be positive, got %d", appCfg.FormRateLimitMax)
	}
	if appCfg.FormRateLimitWindow <= 0 {
		return fmt.Errorf("form_rate_limit_window must be positive, got %s", appCfg.FormRateLimitWindow)
	}
	if _, err := network.NewResolver(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted_proxies: %w", err)
	}
	if appCfg.SubmissionRetention < 0 {
		return fmt.Errorf("submission_retention must not be negative, got %s", appCfg.SubmissionRetention)
	}
	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			logger.Error("invalid Redis URL", zap.Error(err))
			return fmt.Errorf("invalid Redis URL: %w", err)
		}
	}
	if appCfg.SeedAdminEmail != "" && appCfg.SeedAdminPassword == "" {
		return fmt.Errorf("seed_admin_password is required when seed_admin_email is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
