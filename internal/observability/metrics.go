package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PositionsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_positions_received_total",
		Help: "Positions handed to the dispatcher, by source",
	}, []string{"source"})
	PositionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_positions_rejected_total",
		Help: "Positions rejected before handler evaluation, by reason",
	}, []string{"reason"})
	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_events_emitted_total",
		Help: "Events emitted by handlers, by type",
	}, []string{"type"})
	HandlerFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_handler_faults_total",
		Help: "Handler panics recovered at the dispatcher boundary",
	}, []string{"handler"})
	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_sink_errors_total",
		Help: "Event deliveries a sink reported as failed",
	}, []string{"sink"})
	DispatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "event_dispatch_latency_seconds",
		Help:    "Latency of one full dispatch through the handler chain",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveDispatchLatency(start time.Time) {
	DispatchLatency.Observe(time.Since(start).Seconds())
}

func StartMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})
	_ = http.ListenAndServe(":"+port, nil)
}
