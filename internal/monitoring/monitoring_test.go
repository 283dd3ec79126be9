package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(m *Monitor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r
}

func TestMiddlewareCounters(t *testing.T) {
	m := New()
	r := newTestRouter(m)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	snap := m.Snapshot()
	if snap.RequestCount != 4 {
		t.Errorf("request count = %d, want 4", snap.RequestCount)
	}
	if snap.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", snap.ErrorCount)
	}
	if snap.StatusCodes[http.StatusOK] != 3 {
		t.Errorf("200 count = %d, want 3", snap.StatusCodes[http.StatusOK])
	}
	if snap.Endpoints["GET /ok"] != 3 {
		t.Errorf("endpoint count = %d, want 3", snap.Endpoints["GET /ok"])
	}
	if snap.ActiveRequests != 0 {
		t.Errorf("active requests = %d, want 0", snap.ActiveRequests)
	}
}

func TestRunChecks(t *testing.T) {
	m := New()
	m.RegisterCheck("database", func(ctx context.Context) error { return nil })
	m.RegisterCheck("storage", func(ctx context.Context) error { return errors.New("disk full") })

	results := m.RunChecks(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Results come back sorted by name.
	if results[0].Name != "database" || results[0].Status != "healthy" {
		t.Errorf("database check = %+v", results[0])
	}
	if results[1].Status != "unhealthy" || results[1].Message != "disk full" {
		t.Errorf("storage check = %+v", results[1])
	}
}

func TestHealthHandlerReflectsFailingCheck(t *testing.T) {
	m := New()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", m.HealthHandler())
	r.GET("/ready", m.ReadinessHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health with no checks = %d, want 200", w.Code)
	}

	m.RegisterCheck("database", func(ctx context.Context) error { return errors.New("connection refused") })

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("health with failing check = %d, want 503", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness with failing check = %d, want 503", w.Code)
	}
}
