package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the catalog counters. A nil *Metrics records nothing.
type Metrics struct {
	created  prometheus.Counter
	viewed   prometheus.Counter
	exported prometheus.Counter
}

// NewMetrics registers the catalog counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipes_created_total",
			Help: "Total number of recipes created.",
		}),
		viewed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipe_views_total",
			Help: "Total number of successful single-recipe fetches.",
		}),
		exported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_exports_total",
			Help: "Total number of catalog snapshots written to object storage.",
		}),
	}

	for _, c := range []prometheus.Collector{m.created, m.viewed, m.exported} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recipeCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) recipeViewed() {
	if m != nil {
		m.viewed.Inc()
	}
}

func (m *Metrics) catalogExported() {
	if m != nil {
		m.exported.Inc()
	}
}
