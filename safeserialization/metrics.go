package safeserialization

import "github.com/prometheus/client_golang/prometheus"

const outcomeOK = "ok"

// Metrics counts serialized and deserialized artifacts. A nil *Metrics is valid and records nothing.
type Metrics struct {
	serialized   *prometheus.CounterVec
	deserialized *prometheus.CounterVec
	payloadBytes *prometheus.HistogramVec
}

// NewMetrics creates the artifact metrics and registers them with the given registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		serialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "artifact_serialize_total",
			Help: "Number of serialized artifacts, by type, versioning mode and outcome.",
		}, []string{"type", "mode", "outcome"}),
		deserialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "artifact_deserialize_total",
			Help: "Number of deserialized artifacts, by type and outcome (ok or the error kind).",
		}, []string{"type", "outcome"}),
		payloadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "artifact_payload_bytes",
			Help:    "Size of successfully processed artifact payloads in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 12),
		}, []string{"type"}),
	}

	for _, c := range []prometheus.Collector{m.serialized, m.deserialized, m.payloadBytes} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeSerialize(name string, mode VersioningMode, payloadBytes int, err error) {
	if m == nil {
		return
	}
	m.serialized.WithLabelValues(name, mode.String(), outcome(err)).Inc()
	if err == nil {
		m.payloadBytes.WithLabelValues(name).Observe(float64(payloadBytes))
	}
}

func (m *Metrics) observeDeserialize(name string, payloadBytes int, err error) {
	if m == nil {
		return
	}
	m.deserialized.WithLabelValues(name, outcome(err)).Inc()
	if err == nil {
		m.payloadBytes.WithLabelValues(name).Observe(float64(payloadBytes))
	}
}

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	if e, ok := err.(*Error); ok {
		return string(e.Kind)
	}
	return string(KindMalformed)
}
