package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestMetrics counts requests per route. Counters are atomics; the
// per-route maps share one mutex.
type RequestMetrics struct {
	total     atomic.Int64
	active    atomic.Int64
	errors    atomic.Int64
	denied    atomic.Int64
	latencyMs atomic.Int64
	maxMs     atomic.Int64
	started   time.Time

	mu       sync.Mutex
	routes   map[string]int64
	routeMs  map[string]int64
	statuses map[int]int64
}

// MetricsSnapshot is the JSON body served by the metrics route.
type MetricsSnapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	Denied         int64            `json:"denied"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	RouteCounts    map[string]int64 `json:"route_counts"`
	RouteAvgMs     map[string]int64 `json:"route_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{
		started:  time.Now(),
		routes:   make(map[string]int64),
		routeMs:  make(map[string]int64),
		statuses: make(map[int]int64),
	}
}

// Middleware records every request. Handler errors are rendered here so the
// final status code is known; the error is still returned up the chain.
func (m *RequestMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.active.Add(1)
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start).Milliseconds()
			m.active.Add(-1)
			m.record(c.Request().Method+" "+routeOf(c), c.Response().Status, elapsed)
			return err
		}
	}
}

func (m *RequestMetrics) record(route string, status int, elapsedMs int64) {
	m.total.Add(1)
	m.latencyMs.Add(elapsedMs)
	for {
		cur := m.maxMs.Load()
		if elapsedMs <= cur || m.maxMs.CompareAndSwap(cur, elapsedMs) {
			break
		}
	}
	if status >= http.StatusBadRequest {
		m.errors.Add(1)
	}
	if status == http.StatusForbidden {
		m.denied.Add(1)
	}

	m.mu.Lock()
	m.routes[route]++
	m.routeMs[route] += elapsedMs
	m.statuses[status]++
	m.mu.Unlock()
}

func (m *RequestMetrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		TotalRequests:  m.total.Load(),
		ActiveRequests: m.active.Load(),
		TotalErrors:    m.errors.Load(),
		Denied:         m.denied.Load(),
		MaxLatencyMs:   m.maxMs.Load(),
		UptimeSeconds:  time.Since(m.started).Seconds(),
	}
	if snap.TotalRequests > 0 {
		snap.AvgLatencyMs = float64(m.latencyMs.Load()) / float64(snap.TotalRequests)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	snap.RouteCounts = make(map[string]int64, len(m.routes))
	snap.RouteAvgMs = make(map[string]int64, len(m.routes))
	for route, n := range m.routes {
		snap.RouteCounts[route] = n
		snap.RouteAvgMs[route] = m.routeMs[route] / n
	}
	snap.StatusCodes = make(map[int]int64, len(m.statuses))
	for code, n := range m.statuses {
		snap.StatusCodes[code] = n
	}
	return snap
}

// Handler serves the current snapshot.
func (m *RequestMetrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

// routeOf prefers the registered route pattern so ids don't fan out the map.
func routeOf(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}
