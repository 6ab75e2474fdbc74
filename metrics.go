package gbt

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatched operations and write-verify attempts.
type Metrics struct {
	Dispatched *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Attempts   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg when it is not
// nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gbt",
				Subsystem: "dispatch",
				Name:      "total",
				Help:      "Dispatched I2C operations by outcome",
			},
			[]string{"mode", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gbt",
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Round trip of one I2C operation",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		Attempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "gbt",
				Subsystem: "verify",
				Name:      "attempts",
				Help:      "Attempts used by finished write-verify calls",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.Dispatched, m.Duration, m.Attempts,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(mode Mode, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.Dispatched.WithLabelValues(mode.String(), outcome(err)).Inc()
	m.Duration.WithLabelValues(mode.String()).Observe(took.Seconds())
}

func (m *Metrics) attempts(n int) {
	if m == nil {
		return
	}
	m.Attempts.Observe(float64(n))
}

func outcome(err error) string {
	var (
		enc *EncodingError
		cod *CodecError
		tr  *TransportError
		dev *DeviceError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &enc), errors.As(err, &cod):
		return "encoding"
	case errors.As(err, &tr):
		return "transport"
	case errors.As(err, &dev):
		return "device"
	default:
		return "error"
	}
}
