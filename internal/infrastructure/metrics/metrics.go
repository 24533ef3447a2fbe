// Package metrics expone los contadores del motor de inventario para Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.Metrics = (*Registry)(nil)

// Registry registro propio (no el global) con las métricas del servicio.
type Registry struct {
	reg              *prometheus.Registry
	MovementsWritten *prometheus.CounterVec
	AlertsEmitted    *prometheus.CounterVec
	ReplaySeconds    prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_written_total",
		Help: "Movimientos confirmados por tipo.",
	}, []string{"type"})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_alerts_emitted_total",
		Help: "Alertas de umbral emitidas por tipo.",
	}, []string{"type"})
	replay := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_balance_replay_seconds",
		Help:    "Duración del replay de saldo de un producto.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	r.MustRegister(movements, alerts, replay,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg: r, MovementsWritten: movements, AlertsEmitted: alerts, ReplaySeconds: replay}
}

func (r *Registry) MovementWritten(t entity.MovementType) {
	r.MovementsWritten.WithLabelValues(string(t)).Inc()
}

func (r *Registry) AlertEmitted(t entity.AlertType) {
	r.AlertsEmitted.WithLabelValues(string(t)).Inc()
}

func (r *Registry) ObserveReplay(d time.Duration) {
	r.ReplaySeconds.Observe(d.Seconds())
}

// Handler endpoint /metrics del registro.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
