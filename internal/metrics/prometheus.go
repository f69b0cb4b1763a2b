package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SlugResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slug_resolutions_total",
			Help: "Company slug resolutions by result (hit/miss)",
		},
		[]string{"result"},
	)

	PasswordChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_checks_total",
			Help: "Tenant password verifications by result (valid/invalid/error)",
		},
		[]string{"result"},
	)

	PortalLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Tenant portal logins by company and result",
		},
		[]string{"company", "result"},
	)

	ChangeEventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "change_events_processed_total",
			Help: "Total number of change events persisted per company",
		},
		[]string{"company"},
	)

	WorkerActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_active_goroutines",
			Help: "Number of active worker goroutines per company",
		},
		[]string{"company"},
	)

	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Current RabbitMQ change queue depth per company",
		},
		[]string{"company"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(SlugResolutions)
	prometheus.MustRegister(PasswordChecks)
	prometheus.MustRegister(PortalLogins)
	prometheus.MustRegister(ChangeEventsProcessed)
	prometheus.MustRegister(WorkerActive)
	prometheus.MustRegister(QueueDepth)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
