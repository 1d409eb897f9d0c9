package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ============================================================
// Gallery Metrics
// ============================================================

// Metrics держит собственный registry, чтобы тесты не делили
// глобальный DefaultRegisterer.
type Metrics struct {
	registry *prometheus.Registry

	documentOps     *prometheus.CounterVec
	saveDuration    prometheus.Histogram
	snapshots       *prometheus.CounterVec
	documentObjects prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artchive",
			Subsystem: "gallery",
			Name:      "document_operations_total",
			Help:      "Document loads, saves and deletes by result.",
		}, []string{"op", "result"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "artchive",
			Subsystem: "gallery",
			Name:      "document_save_seconds",
			Help:      "Time spent persisting a gallery document.",
			Buckets:   prometheus.DefBuckets,
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artchive",
			Subsystem: "gallery",
			Name:      "snapshots_total",
			Help:      "Rendered snapshots by result.",
		}, []string{"result"}),
		documentObjects: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "artchive",
			Subsystem: "gallery",
			Name:      "document_top_level_objects",
			Help:      "Top-level object count of saved documents.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(
		m.documentOps,
		m.saveDuration,
		m.snapshots,
		m.documentObjects,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDocument учитывает операцию над документом.
func (m *Metrics) ObserveDocument(op string, err error) {
	m.documentOps.WithLabelValues(op, result(err)).Inc()
}

// ObserveSave учитывает сохранение: длительность и размер сцены.
func (m *Metrics) ObserveSave(started time.Time, objects int, err error) {
	m.ObserveDocument("save", err)
	if err != nil {
		return
	}
	m.saveDuration.Observe(time.Since(started).Seconds())
	m.documentObjects.Observe(float64(objects))
}

func (m *Metrics) ObserveSnapshot(err error) {
	m.snapshots.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
