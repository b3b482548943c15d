package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "txhandler"

// Collector counts what happens to candidate transactions across epochs.
type Collector struct {
	accepted prometheus.Counter
	rejected *prometheus.CounterVec
	poolSize prometheus.Gauge
}

// NewCollector creates the metrics and registers them on reg. A nil reg
// leaves them unregistered, which is handy in tests.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_accepted_total",
			Help:      "Number of candidate transactions accepted into the pool.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_rejected_total",
			Help:      "Number of candidate transactions rejected, by reason.",
		}, []string{"reason"}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_size",
			Help:      "Number of unspent outputs in the pool after the last epoch.",
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, m := range []prometheus.Collector{c.accepted, c.rejected, c.poolSize} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Accepted() {
	c.accepted.Inc()
}

func (c *Collector) Rejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *Collector) SetPoolSize(n int) {
	c.poolSize.Set(float64(n))
}

func (c *Collector) AcceptedCounter() prometheus.Counter {
	return c.accepted
}

func (c *Collector) RejectedCounter(reason string) prometheus.Counter {
	return c.rejected.WithLabelValues(reason)
}

func (c *Collector) PoolSizeGauge() prometheus.Gauge {
	return c.poolSize
}
