package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain takes first hop", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:443", "203.0.113.5"},
		{"real ip header", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.2:443", "198.51.100.7"},
		{"ipv4 remote addr", nil, "192.0.2.1:51234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[::1]:8080", "::1"},
		{"no address", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadataMiddleware(t *testing.T) {
	var ip, ua string
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = GetClientIP(r.Context())
		ua = GetUserAgent(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("User-Agent", "curl/8.0")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "192.0.2.1", ip)
	assert.Equal(t, "curl/8.0", ua)
}
