package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約ライフサイクル操作の総数（operation: create/update/cancel/checkin/checkout/finalize, status: success/conflict/rejected/error）
	ReservationOperationsTotal *prometheus.CounterVec

	// 副作用ディスパッチの総数（kind: notification/email/audit, status: success/failed）
	EffectDispatchesTotal *prometheus.CounterVec

	// 顧客削除の総数（outcome: anonymized/erased/rejected）
	CustomerDeletionsTotal *prometheus.CounterVec

	// 現在の占有客室数
	OccupiedRooms prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_operations_total",
				Help: "Total number of reservation lifecycle operations",
			},
			[]string{"operation", "status"},
		),
		EffectDispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "effect_dispatches_total",
				Help: "Total number of post-commit effect dispatches",
			},
			[]string{"kind", "status"},
		),
		CustomerDeletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_deletions_total",
				Help: "Total number of customer deletion requests by outcome",
			},
			[]string{"outcome"},
		),
		OccupiedRooms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "occupied_rooms",
				Help: "Current number of rooms in occupied status",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationOperationsTotal,
		m.EffectDispatchesTotal,
		m.CustomerDeletionsTotal,
		m.OccupiedRooms,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
