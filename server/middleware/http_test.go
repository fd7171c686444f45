package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rr := serve(r, httptest.NewRequest("GET", "/", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", &buf)

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.GET("/test", func(*gin.Context) { panic("test panic") })

	rr := serve(r, httptest.NewRequest("GET", "/test", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body errors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != errors.ErrCodeInternal {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
	if !strings.Contains(buf.String(), "test panic") {
		t.Errorf("expected the panic to be logged, got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID(t *testing.T) {
	existing := uuid.NewString()
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generates when missing", "", false},
		{"keeps a uuid", existing, true},
		{"replaces a non-uuid", "custom-id-123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen, header string
			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/", func(c *gin.Context) {
				seen = middleware.GetRequestID(c)
				header = c.GetHeader(middleware.HeaderRequestID)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", http.NoBody)
			if tt.incoming != "" {
				req.Header.Set(middleware.HeaderRequestID, tt.incoming)
			}
			rr := serve(r, req)

			got := rr.Header().Get(middleware.HeaderRequestID)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("response id %q is not a uuid", got)
			}
			if seen != got || header != got {
				t.Errorf("handler saw %q/%q, response carried %q", seen, header, got)
			}
			if tt.keep && got != tt.incoming {
				t.Errorf("expected %q to be kept, got %q", tt.incoming, got)
			}
			if !tt.keep && got == tt.incoming {
				t.Errorf("expected %q to be replaced", tt.incoming)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		logged string
	}{
		{"server error", "/api/users", http.StatusInternalServerError, `"level":"error"`},
		{"client error", "/api/users", http.StatusNotFound, `"level":"warn"`},
		{"success", "/api/users", http.StatusCreated, `"level":"debug"`},
		{"health skipped", "/health", http.StatusOK, ""},
		{"api health skipped", "/api/v1/ready", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)

			called := false
			r := gin.New()
			r.Use(middleware.RequestLogger(log))
			r.Any(tt.path, func(c *gin.Context) {
				called = true
				c.Status(tt.status)
			})

			rr := serve(r, httptest.NewRequest("POST", tt.path, http.NoBody))
			if !called {
				t.Fatal("handler should always be called")
			}
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			out := buf.String()
			if tt.logged == "" {
				if out != "" {
					t.Errorf("expected no log line, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.logged) || !strings.Contains(out, `"path":"`+tt.path+`"`) {
				t.Errorf("unexpected log line %q", out)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"within limit", "small", false},
		{"over limit", strings.Repeat("x", 64), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			r := gin.New()
			r.Use(middleware.BodySizeLimit(16))
			r.POST("/upload", func(c *gin.Context) {
				_, readErr = io.ReadAll(c.Request.Body)
				c.Status(http.StatusOK)
			})

			serve(r, httptest.NewRequest("POST", "/upload", strings.NewReader(tt.body)))
			if (readErr != nil) != tt.wantErr {
				t.Errorf("read error = %v, wantErr %v", readErr, tt.wantErr)
			}
		})
	}
}
