package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 5 * time.Second

// Monitor aggregates in-process request counters and named health probes.
type Monitor struct {
	mu            sync.RWMutex
	requestCount  int64
	errorCount    int64
	active        int64
	totalDuration time.Duration
	statusCodes   map[int]int64
	endpoints     map[string]int64
	startTime     time.Time
	lastRequest   time.Time

	checkMu sync.RWMutex
	checks  map[string]CheckFunc
}

// CheckFunc probes a dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

type CheckResult struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	RunAt   time.Time `json:"run_at"`
}

type Snapshot struct {
	RequestCount   int64            `json:"request_count"`
	ErrorCount     int64            `json:"error_count"`
	ActiveRequests int64            `json:"active_requests"`
	AvgDurationMS  float64          `json:"avg_request_duration_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
	Endpoints      map[string]int64 `json:"endpoint_calls"`
	StartTime      time.Time        `json:"start_time"`
	LastRequest    time.Time        `json:"last_request"`
}

func New() *Monitor {
	return &Monitor{
		statusCodes: make(map[int]int64),
		endpoints:   make(map[string]int64),
		startTime:   time.Now(),
		checks:      make(map[string]CheckFunc),
	}
}

// Middleware records per-request counters. Unmatched routes are counted
// under the raw method so the endpoint map stays bounded.
func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.active++
		m.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		m.mu.Lock()
		m.requestCount++
		m.active--
		m.totalDuration += duration
		m.lastRequest = time.Now()
		if status >= 400 {
			m.errorCount++
		}
		m.statusCodes[status]++
		m.endpoints[endpoint]++
		m.mu.Unlock()
	}
}

func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		RequestCount:   m.requestCount,
		ErrorCount:     m.errorCount,
		ActiveRequests: m.active,
		StatusCodes:    make(map[int]int64, len(m.statusCodes)),
		Endpoints:      make(map[string]int64, len(m.endpoints)),
		StartTime:      m.startTime,
		LastRequest:    m.lastRequest,
	}
	if m.requestCount > 0 {
		snap.AvgDurationMS = float64(m.totalDuration.Milliseconds()) / float64(m.requestCount)
	}
	for k, v := range m.statusCodes {
		snap.StatusCodes[k] = v
	}
	for k, v := range m.endpoints {
		snap.Endpoints[k] = v
	}
	return snap
}

func (m *Monitor) RegisterCheck(name string, fn CheckFunc) {
	m.checkMu.Lock()
	defer m.checkMu.Unlock()
	m.checks[name] = fn
}

// RunChecks executes every registered probe with a per-probe timeout.
func (m *Monitor) RunChecks(ctx context.Context) []CheckResult {
	m.checkMu.RLock()
	names := make([]string, 0, len(m.checks))
	fns := make(map[string]CheckFunc, len(m.checks))
	for name, fn := range m.checks {
		names = append(names, name)
		fns[name] = fn
	}
	m.checkMu.RUnlock()
	sort.Strings(names)

	results := make([]CheckResult, 0, len(names))
	for _, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		result := CheckResult{Name: name, Status: "healthy", RunAt: time.Now()}
		if err := fns[name](probeCtx); err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
		}
		cancel()
		results = append(results, result)
	}
	return results
}

type SystemStats struct {
	Uptime         string `json:"uptime"`
	GoroutineCount int    `json:"goroutine_count"`
	CPUCount       int    `json:"cpu_count"`
	GoVersion      string `json:"go_version"`
	AllocMB        uint64 `json:"alloc_mb"`
	SysMB          uint64 `json:"sys_mb"`
	NumGC          uint32 `json:"num_gc"`
}

func (m *Monitor) SystemStats() SystemStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return SystemStats{
		Uptime:         time.Since(m.startTime).String(),
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
		AllocMB:        ms.Alloc / 1024 / 1024,
		SysMB:          ms.Sys / 1024 / 1024,
		NumGC:          ms.NumGC,
	}
}

func (m *Monitor) MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application": m.Snapshot(),
			"system":      m.SystemStats(),
			"timestamp":   time.Now(),
		})
	}
}

func (m *Monitor) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := m.RunChecks(c.Request.Context())

		overall := "healthy"
		status := http.StatusOK
		for _, check := range checks {
			if check.Status != "healthy" {
				overall = "unhealthy"
				status = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"checks":    checks,
			"uptime":    time.Since(m.startTime).String(),
			"timestamp": time.Now(),
		})
	}
}

func (m *Monitor) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range m.RunChecks(c.Request.Context()) {
			if check.Status != "healthy" {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "not ready",
					"timestamp": time.Now(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now(),
		})
	}
}

func (m *Monitor) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"uptime":    time.Since(m.startTime).String(),
			"timestamp": time.Now(),
		})
	}
}
