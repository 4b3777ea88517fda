package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecteye_client_requests_total",
		Help: "Attempts sent to the ProjectEye API, by method and status code.",
	}, []string{"method", "code"})
	clientLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecteye_client_request_duration_seconds",
		Help:    "Latency of single attempts to the ProjectEye API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	clientRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecteye_client_refresh_total",
		Help: "Token refresh calls by result.",
	}, []string{"result"})
	clientRefreshWaiters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projecteye_client_refresh_waiters",
		Help: "Requests currently suspended on an in-flight refresh.",
	})
)
