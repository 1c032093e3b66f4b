// Package metrics agrupa los collectors Prometheus del servicio.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/profilegate/internal/access"
)

// Metrics implementa access.Observer y expone los collectors HTTP.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        prometheus.Gauge
	rateLimitedTotal    *prometheus.CounterVec
	decisionsTotal      *prometheus.CounterVec
	roleWritesTotal     *prometheus.CounterVec
}

var _ access.Observer = (*Metrics)(nil)

// New registra los collectors en reg. Si reg es nil usa un registry propio
// (tests); con prometheus.DefaultRegisterer se exponen también las métricas
// de runtime de Go.
func New(reg prometheus.Registerer, gat prometheus.Gatherer) (*Metrics, error) {
	if reg == nil || gat == nil {
		r := prometheus.NewRegistry()
		reg, gat = r, r
	}

	m := &Metrics{
		gatherer: gat,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo",
		}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rechazadas por rate limit",
		}, []string{"path"}),
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Decisiones del gate por operación y resultado",
		}, []string{"op", "allow", "reason"}),
		roleWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "role_writes_total",
			Help: "Escrituras de rol por camino (procedure|direct) y resultado",
		}, []string{"path", "result"}),
	}

	var err error
	m.httpRequestsTotal, err = register(reg, m.httpRequestsTotal)
	if err != nil {
		return nil, err
	}
	m.httpRequestDuration, err = register(reg, m.httpRequestDuration)
	if err != nil {
		return nil, err
	}
	m.httpInflight, err = register(reg, m.httpInflight)
	if err != nil {
		return nil, err
	}
	m.rateLimitedTotal, err = register(reg, m.rateLimitedTotal)
	if err != nil {
		return nil, err
	}
	m.decisionsTotal, err = register(reg, m.decisionsTotal)
	if err != nil {
		return nil, err
	}
	m.roleWritesTotal, err = register(reg, m.roleWritesTotal)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register registra c; si ya existe uno igual devuelve el existente.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Handler sirve /metrics para el gatherer configurado.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP registra un request terminado. path debe ser el patrón de ruta,
// nunca el path crudo (cardinalidad).
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) InflightInc() { m.httpInflight.Inc() }
func (m *Metrics) InflightDec() { m.httpInflight.Dec() }

func (m *Metrics) ObserveRateLimited(path string) {
	m.rateLimitedTotal.WithLabelValues(path).Inc()
}

// ObserveDecision implementa access.Observer.
func (m *Metrics) ObserveDecision(op access.Operation, d access.AccessDecision) {
	m.decisionsTotal.WithLabelValues(string(op), strconv.FormatBool(d.Allow), d.Reason).Inc()
}

// ObserveRoleWrite implementa access.Observer.
func (m *Metrics) ObserveRoleWrite(path access.RoleWritePath, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.roleWritesTotal.WithLabelValues(string(path), result).Inc()
}
