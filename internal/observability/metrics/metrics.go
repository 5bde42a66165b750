package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

const namespace = "citecheck"

type Metrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	checksTotal     *prometheus.CounterVec
	checkDuration   *prometheus.HistogramVec
	citationsTotal  *prometheus.CounterVec
	citationsPerRun *prometheus.HistogramVec
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	checksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "runs_total",
			Help:      "Total citation checks by outcome and error category.",
		},
		[]string{"service", "outcome", "category"},
	)
	checkDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "duration_seconds",
			Help:      "Citation check duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"service", "outcome"},
	)
	citationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "citations_total",
			Help:      "Citations seen in successful checks by lookup status.",
		},
		[]string{"service", "status_name"},
	)
	citationsPerRun := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "check",
			Name:      "citations_per_run",
			Help:      "Distribution of citations found per successful check.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		checksTotal,
		checkDuration,
		citationsTotal,
		citationsPerRun,
	)

	return &Metrics{
		service:         service,
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		checksTotal:     checksTotal,
		checkDuration:   checkDuration,
		citationsTotal:  citationsTotal,
		citationsPerRun: citationsPerRun,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCheck records one finished check.
func (m *Metrics) ObserveCheck(result domain.CheckResult, duration time.Duration) {
	outcome := "success"
	category := "none"
	if !result.Success {
		outcome = "failure"
		category = domain.Category(result.Err)
	}

	m.checksTotal.WithLabelValues(m.service, outcome, category).Inc()
	m.checkDuration.WithLabelValues(m.service, outcome).Observe(duration.Seconds())

	if !result.Success || result.Data == nil || result.Data.Report == nil {
		return
	}
	report := result.Data.Report
	m.citationsPerRun.WithLabelValues(m.service).Observe(float64(len(report.Citations)))
	for _, entry := range report.Citations {
		m.citationsTotal.WithLabelValues(m.service, entry.StatusName).Inc()
	}
}
