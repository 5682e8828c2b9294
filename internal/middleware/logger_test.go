package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/metrics"
)

// newLoggedRouter routes logs of every request into buf
func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	l := logger.NewSlogLogger(logger.Config{Level: logger.LevelDebug, Format: "json", Output: buf})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), l))
	})
	r.Use(RequestID(), Logger())
	r.GET("/api/v1/analytics/:userId", func(c *gin.Context) {
		ctx := logger.WithEventernoteUser(c.Request.Context(), c.Param("userId"))
		c.Request = c.Request.WithContext(ctx)
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})
	return r
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"generated when absent", "", false},
		{"reused when well formed", "trace-abc.123", true},
		{"replaced when malformed", "bad id\nX-Injected: 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newLoggedRouter(&buf)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/alice", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			r.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			if id == "" {
				t.Fatal("response has no request ID")
			}
			if tt.reused != (id == tt.incoming) {
				t.Errorf("request ID = %q, incoming %q", id, tt.incoming)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["request_id"] != id {
				t.Errorf("gin context request_id = %q, header %q", body["request_id"], id)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/analytics/:userId", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/alice", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("requests counter increased by %v, want 1", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	want := map[string]any{
		"msg":              "request completed",
		"route":            "/api/v1/analytics/:userId",
		"path":             "/api/v1/analytics/alice",
		"status":           float64(200),
		"eventernote_user": "alice",
		"request_id":       w.Header().Get(RequestIDHeader),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLogger_UnmatchedRoute(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched counter increased by %v, want 1", got)
	}
}
