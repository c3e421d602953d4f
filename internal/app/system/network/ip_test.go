package network

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP_NoTrustedProxies(t *testing.T) {
	var res *Resolver

	tests := []struct {
		name          string
		xForwardedFor string
		xRealIP       string
		remoteAddr    string
		expectedIP    string
	}{
		{
			name:          "X-Forwarded-For ignored without trusted proxies",
			xForwardedFor: "192.168.1.1",
			remoteAddr:    "10.0.0.1:12345",
			expectedIP:    "10.0.0.1",
		},
		{
			name:       "X-Real-IP ignored without trusted proxies",
			xRealIP:    "192.168.1.1",
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "RemoteAddr with port",
			remoteAddr: "192.168.1.1:12345",
			expectedIP: "192.168.1.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.1",
			expectedIP: "192.168.1.1",
		},
		{
			name:       "IPv6 RemoteAddr with port",
			remoteAddr: "[::1]:12345",
			expectedIP: "::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			req.RemoteAddr = tt.remoteAddr

			got := res.ClientIP(req)
			if got != tt.expectedIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expectedIP)
			}
		})
	}
}

func TestResolver_ClientIP(t *testing.T) {
	res, err := NewResolver([]string{"10.0.0.0/8", " 192.0.2.7 ", "", "fd00::/8"})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	tests := []struct {
		name          string
		xForwardedFor []string
		xRealIP       string
		remoteAddr    string
		expectedIP    string
	}{
		{
			name:          "untrusted peer cannot spoof",
			xForwardedFor: []string{"198.51.100.1"},
			remoteAddr:    "203.0.113.50:4000",
			expectedIP:    "203.0.113.50",
		},
		{
			name:          "right-most untrusted hop wins",
			xForwardedFor: []string{"198.51.100.1, 203.0.113.9, 10.1.2.3"},
			remoteAddr:    "10.0.0.1:4000",
			expectedIP:    "203.0.113.9",
		},
		{
			name:          "chain split over several headers",
			xForwardedFor: []string{"198.51.100.1", "203.0.113.9", "192.0.2.7"},
			remoteAddr:    "10.0.0.1:4000",
			expectedIP:    "203.0.113.9",
		},
		{
			name:          "all hops trusted",
			xForwardedFor: []string{"10.9.9.9, 10.1.1.1"},
			remoteAddr:    "10.0.0.1:4000",
			expectedIP:    "10.9.9.9",
		},
		{
			name:          "garbage hop ends the chain",
			xForwardedFor: []string{"198.51.100.1, not-an-ip, 10.1.1.1"},
			remoteAddr:    "10.0.0.1:4000",
			expectedIP:    "10.1.1.1",
		},
		{
			name:          "X-Forwarded-For takes precedence over X-Real-IP",
			xForwardedFor: []string{"198.51.100.1"},
			xRealIP:       "198.51.100.2",
			remoteAddr:    "10.0.0.1:4000",
			expectedIP:    "198.51.100.1",
		},
		{
			name:       "X-Real-IP from trusted proxy",
			xRealIP:    "198.51.100.2",
			remoteAddr: "192.0.2.7:4000",
			expectedIP: "198.51.100.2",
		},
		{
			name:       "invalid X-Real-IP falls back to peer",
			xRealIP:    "<script>",
			remoteAddr: "10.0.0.1:4000",
			expectedIP: "10.0.0.1",
		},
		{
			name:          "IPv4-mapped peer is trusted",
			xForwardedFor: []string{"198.51.100.1"},
			remoteAddr:    "[::ffff:10.0.0.1]:4000",
			expectedIP:    "198.51.100.1",
		},
		{
			name:          "IPv6 proxy",
			xForwardedFor: []string{"2001:db8::1"},
			remoteAddr:    "[fd00::2]:4000",
			expectedIP:    "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for _, v := range tt.xForwardedFor {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			req.RemoteAddr = tt.remoteAddr

			if got := res.ClientIP(req); got != tt.expectedIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expectedIP)
			}
		})
	}
}

func TestNewResolver_RejectsBadEntries(t *testing.T) {
	for _, in := range []string{"10.0.0.0/33", "proxy.internal", "10.0.0"} {
		if _, err := NewResolver([]string{in}); err == nil {
			t.Errorf("NewResolver(%q) = nil error", in)
		}
	}
}

func TestMetadata(t *testing.T) {
	res, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/forms/contact", nil)
	req.RemoteAddr = "203.0.113.9:4242"
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.Header.Set("Referer", "https://example.com/contact")
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	got := res.Metadata(req)
	if got.IP != "203.0.113.9" {
		t.Errorf("IP = %q", got.IP)
	}
	if got.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent = %q", got.UserAgent)
	}
	if got.SourceURL != "https://example.com/contact" {
		t.Errorf("SourceURL = %q, want Referer", got.SourceURL)
	}

	req.Header.Del("Referer")
	if got := res.Metadata(req); got.SourceURL != "https://example.com" {
		t.Errorf("SourceURL = %q, want Origin fallback", got.SourceURL)
	}
}
