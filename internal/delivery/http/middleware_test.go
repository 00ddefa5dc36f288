package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "https://forms-staging.example.com",
			allowedOrigins: []string{"https://forms-*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"https://forms-*", "http://localhost:3000"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"https://forms-*", "http://localhost:3000"},
			want:           false,
		},
		{
			name:           "port must match exactly",
			origin:         "http://localhost:3001",
			allowedOrigins: []string{"http://localhost:3000"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"https://forms-*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{name: "allowed origin - GET request", origin: "http://localhost:3000", method: "GET", wantStatus: http.StatusOK, wantCORS: true},
		{name: "allowed origin - OPTIONS request", origin: "http://localhost:3000", method: "OPTIONS", wantStatus: http.StatusNoContent, wantCORS: true},
		{name: "disallowed origin", origin: "http://evil.com", method: "GET", wantStatus: http.StatusOK, wantCORS: false},
		{name: "no origin header", origin: "", method: "GET", wantStatus: http.StatusOK, wantCORS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
					t.Errorf("Access-Control-Allow-Credentials not set to true")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set for disallowed origin, got %s", corsHeader)
			}
		})
	}
}

func TestCORSMiddleware_PreflightUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	router.POST("/upload", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("OPTIONS", "/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("Access-Control-Allow-Methods not set")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Errorf("Access-Control-Allow-Headers not set")
	}
	if w.Header().Get("Access-Control-Max-Age") == "" {
		t.Errorf("Access-Control-Max-Age not set")
	}
}

func TestIPRateLimiter(t *testing.T) {
	t.Run("allows burst then rejects", func(t *testing.T) {
		limiter := NewIPRateLimiter(60, 3)
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		for i := 0; i < 3; i++ {
			if !limiter.Allow("10.0.0.1") {
				t.Fatalf("request %d rejected within burst", i+1)
			}
		}
		if limiter.Allow("10.0.0.1") {
			t.Error("request over burst allowed, want rejected")
		}

		// Other clients have their own bucket
		if !limiter.Allow("10.0.0.2") {
			t.Error("second IP rejected, want allowed")
		}

		// One token refills per second at 60/min
		now = now.Add(time.Second)
		if !limiter.Allow("10.0.0.1") {
			t.Error("request after refill rejected, want allowed")
		}
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		limiter := NewIPRateLimiter(0, 0)
		for i := 0; i < 100; i++ {
			if !limiter.Allow("10.0.0.1") {
				t.Fatalf("request %d rejected with limiting disabled", i+1)
			}
		}
	})

	t.Run("forgets idle visitors", func(t *testing.T) {
		limiter := NewIPRateLimiter(60, 1)
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		limiter.Allow("10.0.0.1")
		now = now.Add(2 * visitorIdleTimeout)
		limiter.Allow("10.0.0.2")

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		if _, ok := limiter.visitors["10.0.0.1"]; ok {
			t.Error("idle visitor still tracked after sweep")
		}
		if len(limiter.visitors) != 1 {
			t.Errorf("visitors = %d, want 1", len(limiter.visitors))
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/upload", RateLimitMiddleware(NewIPRateLimiter(1, 1)), func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	send := func() int {
		req := httptest.NewRequest("POST", "/upload", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", code, http.StatusOK)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", code, http.StatusTooManyRequests)
	}
}
