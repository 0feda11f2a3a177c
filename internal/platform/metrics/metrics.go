package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labourhub_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labourhub_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SalariesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "labourhub_salaries_generated_total",
			Help: "Salary records created by the generation engine",
		},
	)

	AttendanceBulkRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labourhub_attendance_bulk_records_total",
			Help: "Bulk attendance entries by result",
		},
		[]string{"result"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labourhub_notifications_sent_total",
			Help: "Notification deliveries by channel and status",
		},
		[]string{"type", "status"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(SalariesGenerated)
	prometheus.MustRegister(AttendanceBulkRecords)
	prometheus.MustRegister(NotificationsSent)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
