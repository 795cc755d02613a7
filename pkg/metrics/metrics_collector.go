package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 指标收集器
// 每个实例持有独立的 Registry，测试中可以重复创建
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 订单指标
	orderTransitionsTotal *prometheus.CounterVec
	orderAmountTotal      *prometheus.CounterVec
	sweeperExpiredTotal   prometheus.Counter
	lockWaitDuration      prometheus.Histogram

	// 支付网关指标
	gatewayRequestsTotal   *prometheus.CounterVec
	gatewayRequestDuration *prometheus.HistogramVec
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		orderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_order_transitions_total",
				Help: "Order state transitions by order type and target status",
			},
			[]string{"order_type", "status"},
		),

		orderAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_order_amount_total",
				Help: "Sum of paid and refunded order amounts",
			},
			[]string{"type"},
		),

		sweeperExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "membership_sweeper_expired_total",
				Help: "Orders moved to EXPIRED by the batch sweeper",
			},
		),

		lockWaitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "membership_user_lock_wait_seconds",
				Help:    "Time spent acquiring the per-user order lock",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		gatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_requests_total",
				Help: "Payment gateway calls by platform, operation and result",
			},
			[]string{"platform", "operation", "result"},
		),

		gatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_request_duration_seconds",
				Help:    "Payment gateway call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"platform", "operation"},
		),
	}
}

// Registry 暴露给测试读取
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB 导出连接池统计（go_sql_* 指标）
func (m *MetricsCollector) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler /metrics 处理器
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOrderTransition 记录订单状态流转
func (m *MetricsCollector) RecordOrderTransition(orderType, status string) {
	m.orderTransitionsTotal.WithLabelValues(orderType, status).Inc()
}

// RecordOrderAmount 记录资金流水金额（payment / refund）
func (m *MetricsCollector) RecordOrderAmount(kind string, amount float64) {
	m.orderAmountTotal.WithLabelValues(kind).Add(amount)
}

// RecordSweep 记录批量过期数量
func (m *MetricsCollector) RecordSweep(expired int64) {
	m.sweeperExpiredTotal.Add(float64(expired))
}

// ObserveLockWait 记录加锁等待时间
func (m *MetricsCollector) ObserveLockWait(d time.Duration) {
	m.lockWaitDuration.Observe(d.Seconds())
}

// RecordGatewayCall 记录网关调用
func (m *MetricsCollector) RecordGatewayCall(platform, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.gatewayRequestsTotal.WithLabelValues(platform, operation, result).Inc()
	m.gatewayRequestDuration.WithLabelValues(platform, operation).Observe(duration.Seconds())
}
