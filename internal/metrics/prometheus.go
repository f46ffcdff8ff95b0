// Package metrics provides Prometheus metrics for the petpals server.
//
// All methods are safe to call on a nil *Metrics so components can be built
// without instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Push triggers.
const (
	TriggerRegister = "register"
	TriggerNotify   = "notify"
	TriggerPoll     = "poll"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	liveSubscribers      *prometheus.GaugeVec
	livePushes           *prometheus.CounterVec
	liveDeliveryFailures *prometheus.CounterVec
	busEvents            *prometheus.CounterVec
	mutations            *prometheus.CounterVec
	petWriteConflicts    prometheus.Counter
	petTransitions       *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		liveSubscribers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "petpals_live_subscribers",
				Help: "Number of live-update subscribers currently registered",
			},
			[]string{"resource"},
		),
		livePushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petpals_live_pushes_total",
				Help: "Total number of snapshots handed to live subscribers",
			},
			[]string{"resource", "trigger"},
		),
		liveDeliveryFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petpals_live_delivery_failures_total",
				Help: "Total number of failed snapshot deliveries (subscriber removed)",
			},
			[]string{"resource"},
		),
		busEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petpals_live_bus_events_total",
				Help: "Total number of cross-replica bus events by direction",
			},
			[]string{"direction"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petpals_mutations_total",
				Help: "Total number of committed guarded mutations",
			},
			[]string{"operation"},
		),
		petWriteConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "petpals_pet_write_conflicts_total",
				Help: "Total number of pet writes retried after a version conflict",
			},
		),
		petTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petpals_pet_transitions_total",
				Help: "Total number of pet state transitions by kind",
			},
			[]string{"transition"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petpals_rpc_duration_seconds",
				Help:    "RPC duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"procedure", "code"},
		),
	}
}

// SubscriberAdded increments the live subscriber gauge.
func (m *Metrics) SubscriberAdded(resource string) {
	if m == nil {
		return
	}
	m.liveSubscribers.WithLabelValues(resource).Inc()
}

// SubscriberRemoved decrements the live subscriber gauge.
func (m *Metrics) SubscriberRemoved(resource string) {
	if m == nil {
		return
	}
	m.liveSubscribers.WithLabelValues(resource).Dec()
}

// RecordPush counts a snapshot handed to a subscriber.
func (m *Metrics) RecordPush(resource, trigger string) {
	if m == nil {
		return
	}
	m.livePushes.WithLabelValues(resource, trigger).Inc()
}

// RecordDeliveryFailure counts a failed delivery.
func (m *Metrics) RecordDeliveryFailure(resource string) {
	if m == nil {
		return
	}
	m.liveDeliveryFailures.WithLabelValues(resource).Inc()
}

// RecordBusEvent counts a bus event; direction is "published" or "received".
func (m *Metrics) RecordBusEvent(direction string) {
	if m == nil {
		return
	}
	m.busEvents.WithLabelValues(direction).Inc()
}

// RecordMutation counts a committed guarded write.
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
}

// RecordPetConflict counts a retried pet write.
func (m *Metrics) RecordPetConflict() {
	if m == nil {
		return
	}
	m.petWriteConflicts.Inc()
}

// RecordPetTransition counts a pet transition.
func (m *Metrics) RecordPetTransition(transition string) {
	if m == nil {
		return
	}
	m.petTransitions.WithLabelValues(transition).Inc()
}

// RecordRPC records an RPC's duration and result code.
func (m *Metrics) RecordRPC(procedure, code string, duration time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(duration.Seconds())
}
