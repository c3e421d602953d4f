package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "stratasite_test",
		FormRateLimitMax:    5,
		FormRateLimitWindow: 15 * time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()
	assert.NoError(t, ValidateConfig(nil, validConfig(), logger))

	behindProxy := validConfig()
	behindProxy.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.7"}
	assert.NoError(t, ValidateConfig(nil, behindProxy, logger))

	withRedis := validConfig()
	withRedis.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, ValidateConfig(nil, withRedis, logger))

	cases := map[string]func(*AppConfig){
		"zero rate max":      func(c *AppConfig) { c.FormRateLimitMax = 0 },
		"zero rate window":   func(c *AppConfig) { c.FormRateLimitWindow = 0 },
		"negative retention": func(c *AppConfig) { c.SubmissionRetention = -time.Hour },
		"bad redis url":      func(c *AppConfig) { c.RedisURL = "ftp://cache" },
		"bad trusted proxy":  func(c *AppConfig) { c.TrustedProxies = []string{"lb.internal"} },
		"admin without pass": func(c *AppConfig) { c.SeedAdminEmail = "admin@example.com" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, ValidateConfig(nil, cfg, logger))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
}

func TestCSRFExempt(t *testing.T) {
	cases := []struct {
		method, path, auth string
		want               bool
	}{
		{http.MethodPost, "/api/auth/login", "", true},
		{http.MethodPost, "/api/forms/contact", "", true},
		{http.MethodPost, "/api/admin/posts", "Bearer key", true},
		{http.MethodPost, "/api/admin/posts", "", false},
		{http.MethodPost, "/api/auth/logout", "", false},
		{http.MethodDelete, "/api/admin/categories/abc", "Basic xyz", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		assert.Equal(t, tc.want, csrfExempt(req), "%s %s %q", tc.method, tc.path, tc.auth)
	}
}
