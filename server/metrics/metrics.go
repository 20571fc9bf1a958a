// Package metrics defines the prometheus collectors of the server.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry             *prometheus.Registry
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	WordsCheckedTotal    *prometheus.CounterVec
	WordCheckDuration    prometheus.Histogram
	CacheLookupsTotal    *prometheus.CounterVec
	BoardsCreatedTotal   prometheus.Counter
	SocketsOpen          prometheus.Gauge
}

// New creates Metrics on a new registry that also carries the go runtime and process collectors.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		WordsCheckedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boggle_words_checked_total",
				Help: "Total candidate words checked against boards by validity.",
			},
			[]string{"valid"},
		),
		WordCheckDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "boggle_word_check_duration_seconds",
				Help:    "Time to decide if a word can be formed on a board.",
				Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boggle_cache_lookups_total",
				Help: "Total word list cache lookups by result (hit, miss).",
			},
			[]string{"result"},
		),
		BoardsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "boggle_boards_created_total",
				Help: "Total board tokens issued.",
			},
		),
		SocketsOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "boggle_sockets_open",
				Help: "Number of open websocket connections.",
			},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.WordsCheckedTotal,
		m.WordCheckDuration,
		m.CacheLookupsTotal,
		m.BoardsCreatedTotal,
		m.SocketsOpen,
	)
	return &m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the prometheus scrape handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveWord records a word check.  It implements the solver Observer interface.
func (m *Metrics) ObserveWord(valid bool, d time.Duration) {
	m.WordsCheckedTotal.WithLabelValues(strconv.FormatBool(valid)).Inc()
	m.WordCheckDuration.Observe(d.Seconds())
}

// ObserveCache records a cache lookup.  It implements the cache Observer interface.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Middleware records the request count, latency, and in-flight gauge of the handler.
// The path label is the route pattern so ids in urls do not create new series.
func (m *Metrics) Middleware(path string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(sw, r)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	return sw.ResponseWriter.Write(b)
}

// Hijack lets the websocket upgrader take over the connection.
func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer cannot be hijacked")
	}
	sw.status = http.StatusSwitchingProtocols
	sw.wroteHeader = true
	return h.Hijack()
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
