package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scolaris", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"route", "code"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scolaris", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scolaris", Name: "handler_errors_total", Help: "Handler errors",
	})
	Aggregations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scolaris", Name: "aggregations_total", Help: "Aggregator invocations",
	}, []string{"kind"})
	NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scolaris", Name: "notifications_sent_total", Help: "Telegram notifications sent",
	}, []string{"kind"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scolaris", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, HandlerErrors, Aggregations, NotificationsSent, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
