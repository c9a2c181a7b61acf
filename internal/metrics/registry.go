package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	defaultMu sync.Mutex
	defaultM  *Metrics
)

// GetDefault returns the shared metrics instance registered on the
// global Prometheus registerer. It backs components built without an
// explicit Metrics, such as a Decomposer constructed without
// WithMetrics.
func GetDefault() *Metrics {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultM == nil {
		defaultM = NewMetrics(prometheus.DefaultRegisterer)
	}
	return defaultM
}

// NewRegistry builds an isolated registry holding the taskplan metric
// families (provider calls, plan builds, store operations, HTTP
// traffic). The serve command uses this so /metrics only exposes what
// the server records.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// Handler serves the global Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves a specific registry, typically one from NewRegistry.
func HandlerFor(reg prometheus.Gatherer, opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(reg, opts)
}

// Reset clears the shared instance so tests start from a clean slate.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultM = nil
}
