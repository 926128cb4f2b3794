package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/event"
)

// NewMongoPoolMonitor returns a driver pool monitor feeding connection
// gauges into reg.
func NewMongoPoolMonitor(reg prometheus.Registerer) *event.PoolMonitor {
	open := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mongo_pool_open_conns",
		Help: "Number of open connections in the MongoDB driver pool",
	})
	checkedOut := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mongo_pool_checked_out_conns",
		Help: "Number of connections currently checked out of the MongoDB driver pool",
	})
	reg.MustRegister(open, checkedOut)

	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				open.Inc()
			case event.ConnectionClosed:
				open.Dec()
			case event.GetSucceeded:
				checkedOut.Inc()
			case event.ConnectionReturned:
				checkedOut.Dec()
			}
		},
	}
}
