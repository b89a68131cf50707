// Package metrics exposes ledger activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns a private registry so tools can dump it without pulling in
// the process-wide default collectors.
type Collector struct {
	registry *prometheus.Registry

	mutations           *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	revision            prometheus.Gauge
	rebuildMismatches   prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "shop_ledger"
	}
	c := &Collector{registry: prometheus.NewRegistry()}

	c.mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Committed ledger mutations",
		},
		[]string{"reference", "action"},
	)
	c.persistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "persistence_failures_total",
			Help:      "Document saves that failed and were rolled back",
		},
		[]string{"key"},
	)
	c.revision = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "revision",
		Help:      "Revision of the last committed mutation",
	})
	c.rebuildMismatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inventory",
		Name:      "rebuild_mismatches_total",
		Help:      "Inventory records found to differ from a replay of the log",
	})

	c.registry.MustRegister(c.mutations, c.persistenceFailures, c.revision, c.rebuildMismatches)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveMutation(reference, action string, revision uint64) {
	c.mutations.WithLabelValues(reference, action).Inc()
	c.revision.Set(float64(revision))
}

func (c *Collector) ObservePersistenceFailure(key string) {
	c.persistenceFailures.WithLabelValues(key).Inc()
}

func (c *Collector) ObserveRebuild(mismatches int) {
	c.rebuildMismatches.Add(float64(mismatches))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
