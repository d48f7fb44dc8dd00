package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var frontendOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"}

func TestIsAllowedOrigin(t *testing.T) {
	testCases := []struct {
		origin  string
		allowed []string
		want    bool
	}{
		{origin: "http://localhost:5173", allowed: frontendOrigins, want: true},
		{origin: "http://localhost:5174", allowed: frontendOrigins, want: true},
		{origin: "http://localhost:8080", allowed: frontendOrigins, want: false},
		{origin: "https://localhost:3000", allowed: frontendOrigins, want: false},
		{origin: "", allowed: frontendOrigins, want: false},
		{origin: "http://localhost:5173", allowed: nil, want: false},
		{origin: "https://app.haircare.example", allowed: []string{"https://*.haircare.example", "https://app.*"}, want: true},
		{origin: "https://shop.haircare.example", allowed: []string{"https://*"}, want: true},
		{origin: "http://shop.haircare.example", allowed: []string{"https://*"}, want: false},
		{origin: "", allowed: []string{"*"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.origin, func(t *testing.T) {
			assert.Equal(t, tc.want, isAllowedOrigin(tc.origin, tc.allowed))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware(frontendOrigins))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusCreated, "created")
	})

	serve := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/test", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		w := serve("GET", "http://localhost:3000")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		w := serve("OPTIONS", "http://localhost:5173")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("disallowed origin still reaches the handler", func(t *testing.T) {
		w := serve("POST", "http://evil.com")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request without origin", func(t *testing.T) {
		w := serve("GET", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(nopLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(perMinute, burst int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(perMinute, burst))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	request := func(router *gin.Engine, ip string) int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("rejects requests over the burst", func(t *testing.T) {
		router := newRouter(1, 2)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1"))
	})

	t.Run("limits each IP separately", func(t *testing.T) {
		router := newRouter(1, 1)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.2"))
	})

	t.Run("disabled when per minute is zero", func(t *testing.T) {
		router := newRouter(0, 0)

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		}
	})
}
