package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics контейнер метрик гидравлического сервиса
type Metrics struct {
	// Расчёты
	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	BottomholePressure  *prometheus.HistogramVec
	DepthSteps          prometheus.Histogram
	SweepPointsTotal    *prometheus.CounterVec

	// Кэш результатов
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Пул воркеров
	PoolInFlight prometheus.Gauge

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var (
	defaultMetrics *Metrics
	defaultMu      sync.Mutex
)

// New регистрирует метрики в reg. nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		CalculationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calculations_total",
				Help:      "Total number of pressure traverse calculations",
			},
			[]string{"method", "status"},
		),

		CalculationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calculation_duration_seconds",
				Help:      "Duration of a single pressure traverse",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method"},
		),

		BottomholePressure: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "bottomhole_pressure_psia",
				Help:      "Calculated bottomhole pressure",
				Buckets:   []float64{250, 500, 1000, 1500, 2000, 2500, 3000, 4000, 5000, 7500, 10000},
			},
			[]string{"method"},
		),

		DepthSteps: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "depth_steps",
				Help:      "Number of depth nodes per calculation",
				Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000},
			},
		),

		SweepPointsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_points_total",
				Help:      "Points evaluated by comparisons and sensitivity sweeps",
			},
			[]string{"kind"},
		),

		CacheHits: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Result cache hits",
			},
		),

		CacheMisses: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Result cache misses",
			},
		),

		PoolInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pool_in_flight",
				Help:      "Calculations currently holding a worker slot",
			},
		),

		ServiceInfo: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}
}

// InitMetrics создаёт метрики в глобальном регистре и делает их дефолтными
func InitMetrics(namespace, subsystem string) *Metrics {
	m := New(nil, namespace, subsystem)
	defaultMu.Lock()
	defaultMetrics = m
	defaultMu.Unlock()
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultMetrics == nil {
		defaultMetrics = New(nil, "wellflow", "hydraulics")
	}
	return defaultMetrics
}

// RecordCalculation записывает метрики одного расчёта
func (m *Metrics) RecordCalculation(method string, success bool, duration time.Duration, bhp float64, steps int) {
	status := "success"
	if !success {
		status = "error"
	}

	m.CalculationsTotal.WithLabelValues(method, status).Inc()
	m.CalculationDuration.WithLabelValues(method).Observe(duration.Seconds())
	if success {
		m.BottomholePressure.WithLabelValues(method).Observe(bhp)
		m.DepthSteps.Observe(float64(steps))
	}
}

// RecordSweep считает точки сравнения/чувствительности
func (m *Metrics) RecordSweep(kind string, points int) {
	m.SweepPointsTotal.WithLabelValues(kind).Add(float64(points))
}

// RecordCache отмечает попадание или промах
func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer собирает HTTP сервер метрик с /health
func NewServer(port int, path string) *http.Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint
	})

	return &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// StartMetricsServer запускает HTTP сервер для метрик (блокирует)
func StartMetricsServer(port int, path string) error {
	return NewServer(port, path).ListenAndServe()
}
