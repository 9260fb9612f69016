package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series with the service and environment.
type Config struct {
	ServiceName string
	Environment string
}

// Posting operations and their results, used as label values.
const (
	OpPost   = "post"
	OpCancel = "cancel"

	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// LedgerMetrics holds the Prometheus instruments of the ledger.
type LedgerMetrics struct {
	entriesCreated  prometheus.Counter
	postingOps      *prometheus.CounterVec
	postingDuration *prometheus.HistogramVec
	httpDuration    *prometheus.HistogramVec
}

// NewLedgerMetrics creates and registers the ledger instruments on registerer.
func NewLedgerMetrics(registerer prometheus.Registerer, cfg Config) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "ledger"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	entriesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "ledger_journal_entries_created_total",
		Help:        "Draft journal entries created.",
		ConstLabels: constLabels,
	})

	postingOps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "ledger_posting_operations_total",
			Help:        "Journal entry status transitions attempted, by operation and result.",
			ConstLabels: constLabels,
		},
		[]string{"operation", "result"}, // post|cancel x success|conflict|rejected|failed
	)

	postingDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "ledger_posting_duration_seconds",
			Help:        "Time spent inside the posting transaction.",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "ledger_http_request_duration_seconds",
			Help:        "HTTP request latency by route and status code.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"route", "status_code"},
	)

	registerer.MustRegister(entriesCreated, postingOps, postingDuration, httpDuration)

	return &LedgerMetrics{
		entriesCreated:  entriesCreated,
		postingOps:      postingOps,
		postingDuration: postingDuration,
		httpDuration:    httpDuration,
	}
}

func (m *LedgerMetrics) IncEntriesCreated() {
	if m == nil {
		return
	}
	m.entriesCreated.Inc()
}

// ObservePosting records the outcome and latency of a post or cancel.
func (m *LedgerMetrics) ObservePosting(operation, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.postingOps.WithLabelValues(operation, result).Inc()
	m.postingDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// GinMiddleware records request duration by matched route.
func GinMiddleware(m *LedgerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}
