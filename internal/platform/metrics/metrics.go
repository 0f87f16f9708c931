package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the process-wide metrics registry. Each module registers its
// own collectors on it; Handler serves them together with Go and process
// collectors.
type Registry struct {
	*prometheus.Registry
	BuildInfo *prometheus.GaugeVec
}

func New(version string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	build := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ledger_build_info",
		Help: "Build information of the running ledger",
	}, []string{"version"})
	reg.MustRegister(build)
	build.WithLabelValues(version).Set(1)

	return &Registry{Registry: reg, BuildInfo: build}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
