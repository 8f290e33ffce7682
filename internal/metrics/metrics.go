package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks currently registered realtime connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sharechat_connections_active",
		Help: "Number of connected realtime clients.",
	})

	// MessagesTotal counts messages accepted into chat history.
	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharechat_messages_total",
		Help: "Total chat messages accepted.",
	})

	// MessagesRejectedTotal counts submissions dropped by validation.
	MessagesRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharechat_messages_rejected_total",
		Help: "Total chat messages rejected by validation.",
	})

	// BroadcastDropsTotal counts events dropped because a client's event
	// buffer was full.
	BroadcastDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharechat_broadcast_drops_total",
		Help: "Total events dropped for slow consumers.",
	})

	// UploadsTotal counts files stored through the upload endpoints.
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sharechat_uploads_total",
		Help: "Total uploaded files.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
