package bench

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	phaseInsert = "insert"
	phaseQuery  = "query"
)

// Metrics holds the gauges of one benchmark run in a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	samples      prometheus.Gauge
	phaseSeconds *prometheus.GaugeVec
	rangeHits    *prometheus.GaugeVec
	treeHeight   *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensordb_bench_samples",
			Help: "The number of readings inserted into every backend",
		}),
		phaseSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensordb_bench_phase_seconds",
			Help: "The elapsed time of a benchmark phase in the last round",
		}, []string{"backend", "phase"}),
		rangeHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensordb_bench_range_hits",
			Help: "The number of readings visited by the range query",
		}, []string{"backend"}),
		treeHeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensordb_bench_tree_height",
			Help: "The height of tree shaped backends after the insert phase",
		}, []string{"backend"}),
	}
	m.registry.MustRegister(m.samples, m.phaseSeconds, m.rangeHits, m.treeHeight)
	return m
}

// Observe records the outcome of one backend.
func (m *Metrics) Observe(r Result) {
	m.samples.Set(float64(r.Samples))
	m.phaseSeconds.WithLabelValues(r.Backend, phaseInsert).Set(r.InsertElapsed.Seconds())
	m.phaseSeconds.WithLabelValues(r.Backend, phaseQuery).Set(r.QueryElapsed.Seconds())
	m.rangeHits.WithLabelValues(r.Backend).Set(float64(r.RangeHits))
	if r.Height > 0 {
		m.treeHeight.WithLabelValues(r.Backend).Set(float64(r.Height))
	}
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes the registry in the format of the node exporter
// textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
