package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitquest_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fitquest_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	missionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitquest_missions_completed_total",
		Help: "Missions completed across all users.",
	})

	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitquest_ai_requests_total",
		Help: "AI gateway calls by operation and outcome.",
	}, []string{"operation", "outcome"})
)

// PrometheusMiddleware records request counts and latency per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// CountMissionCompleted bumps the business counter for one completion.
func CountMissionCompleted() {
	missionsCompletedTotal.Inc()
}

// CountAIRequest records one AI gateway call outcome.
func CountAIRequest(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	aiRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
