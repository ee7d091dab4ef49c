package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	RoomsActive       prometheus.Gauge
	ConnectionsActive prometheus.Gauge
	MessagesRelayed   prometheus.Counter
	FilesRelayed      prometheus.Counter
	EventsDropped     prometheus.Counter
	RoomsExpired      prometheus.Counter
}

// New registers the relay collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RoomsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "echoshare_rooms_active",
			Help: "Number of live rooms.",
		}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "echoshare_connections_active",
			Help: "Number of open websocket connections.",
		}),
		MessagesRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoshare_messages_relayed_total",
			Help: "Messages broadcast to rooms.",
		}),
		FilesRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoshare_files_relayed_total",
			Help: "Files broadcast to rooms.",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoshare_events_dropped_total",
			Help: "Events dropped because a client's send buffer was full.",
		}),
		RoomsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoshare_rooms_expired_total",
			Help: "Rooms removed by the idle sweep.",
		}),
	}
}

// Handler exposes Prometheus metrics for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
