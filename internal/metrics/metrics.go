package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/funcpod/funcpod/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Enabled bool
var registry = prometheus.NewRegistry()

var (
	completedInvocations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funcpod_completed_invocations_total",
		Help: "The total number of completed workload invocations",
	})
	coldStarts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funcpod_cold_starts_total",
		Help: "Invocations that had to create a fresh container",
	})
	warmStarts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funcpod_warm_starts_total",
		Help: "Invocations served by a reused pooled container",
	})
	imagePulls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funcpod_image_pulls_total",
		Help: "Attempted container image pulls",
	})
	imagePullFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funcpod_image_pull_failures_total",
		Help: "Container image pulls that failed",
	})
)

func Init() {
	if config.GetBool(config.METRICS_ENABLED, false) {
		log.Println("Metrics enabled.")
		Enabled = true
	} else {
		log.Println("Metrics disabled.")
		Enabled = false
		return
	}

	registry.MustRegister(completedInvocations, coldStarts, warmStarts,
		imagePulls, imagePullFailures)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true})
	http.Handle("/metrics", handler)
	port := config.GetInt(config.METRICS_PORT, 2112)
	http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}

func AddCompletedInvocation() {
	if Enabled {
		completedInvocations.Inc()
	}
}

func AddColdStart() {
	if Enabled {
		coldStarts.Inc()
	}
}

func AddWarmStart() {
	if Enabled {
		warmStarts.Inc()
	}
}

func AddImagePull() {
	if Enabled {
		imagePulls.Inc()
	}
}

func AddImagePullFailure() {
	if Enabled {
		imagePullFailures.Inc()
	}
}
