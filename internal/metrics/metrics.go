package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "concreto"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	DeviceCommands  *prometheus.CounterVec
	SensorReads     *prometheus.CounterVec
	MixesSaved      prometheus.Counter
	BalanceRequests *prometheus.CounterVec
	MixingRuns      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DeviceCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "device",
			Name:      "commands_total",
			Help:      "Commands sent to the mixer, by command and result.",
		}, []string{"command", "result"}),
		SensorReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "device",
			Name:      "sensor_reads_total",
			Help:      "Sensor reads from the mixer, by result.",
		}, []string{"result"}),
		MixesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mix",
			Name:      "saved_total",
			Help:      "Mix designs persisted to history.",
		}),
		BalanceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mix",
			Name:      "balance_requests_total",
			Help:      "Balance requests, by result (ok, noop, unbalanceable).",
		}, []string{"result"}),
		MixingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mixer",
			Name:      "runs_total",
			Help:      "Mixing runs, by how they ended (completed, stopped, failed).",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.DeviceCommands, m.SensorReads, m.MixesSaved, m.BalanceRequests, m.MixingRuns)
	}
	return m
}

// Nop returns unregistered collectors, handy for tests and tools.
func Nop() *Metrics {
	return New(nil)
}
