// Package metrics 基于Prometheus的业务与HTTP指标
//
// 指标分三类：
//   - HTTP：请求总数、耗时、并发数（由middleware.Metrics记录）
//   - 业务：下单结果、订单状态流转、库存调整、低库存预警、账户扣款
//   - 基础设施：事件发布结果、熔断器状态
//
// 所有指标在InitMetrics中通过promauto注册到默认Registry，
// 由/metrics端点（promhttp.Handler）暴露。
//
// 未调用InitMetrics时（如单元测试），下面的辅助函数不做任何事，
// 业务代码无需判断指标是否已启用。
//
// 常用PromQL：
//
//	# 下单成功率
//	sum(rate(checkouts_total{result="success"}[5m])) / sum(rate(checkouts_total[5m]))
//
//	# 下单P99耗时
//	histogram_quantile(0.99, rate(checkout_duration_seconds_bucket[5m]))
//
//	# 因库存不足失败的下单
//	rate(checkouts_total{result="insufficient_stock"}[5m])
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP指标
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 下单指标
	CheckoutsTotal      *prometheus.CounterVec // 标签: result
	CheckoutDuration    prometheus.Histogram
	CheckoutsInProgress prometheus.Gauge
	OrderAmountTotal    prometheus.Counter // 成交金额累计（分）

	// 订单状态流转
	OrderTransitionsTotal *prometheus.CounterVec // 标签: from, to

	// 库存指标
	StockAdjustmentsTotal *prometheus.CounterVec // 标签: type
	LowStockTotal         prometheus.Counter

	// 账户扣款
	DebitsTotal *prometheus.CounterVec // 标签: result

	// 熔断器指标
	CircuitBreakerState         *prometheus.GaugeVec   // 0=closed 1=half-open 2=open
	CircuitBreakerRequestsTotal *prometheus.CounterVec // 标签: name, result

	// 事件发布
	MessagesPublishedTotal *prometheus.CounterVec // 标签: routing_key, status

	initialized bool
)

// InitMetrics 注册所有指标（重复调用无副作用）
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "下单次数（按结果区分）",
		},
		[]string{"result"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "checkout_duration_seconds",
			Help: "下单事务耗时（秒）",
			// 下单包含多次写入和扣款，比普通请求慢
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	CheckoutsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkouts_in_progress",
			Help: "正在处理的下单请求数",
		},
	)

	OrderAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_amount_cents_total",
			Help: "成交订单金额累计（分）",
		},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "订单状态流转次数",
		},
		[]string{"from", "to"},
	)

	StockAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "库存变更次数（按类型）",
		},
		[]string{"type"},
	)

	LowStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "低库存预警次数",
		},
	)

	DebitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banking_debits_total",
			Help: "账户扣款次数（按结果）",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=closed 1=half-open 2=open）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "经过熔断器的请求数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "事件发布次数",
		},
		[]string{"routing_key", "status"},
	)
}

// =========================================
// 辅助函数（指标未初始化时为空操作）
// =========================================

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	if counter != nil && v > 0 {
		counter.Add(v)
	}
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置带标签的Gauge值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}

// =========================================
// 业务指标
// =========================================

// RecordCheckout 记录一次下单结果和耗时
func RecordCheckout(result string, amount int64, elapsed time.Duration) {
	IncCounterVec(CheckoutsTotal, map[string]string{"result": result})
	ObserveHistogram(CheckoutDuration, elapsed.Seconds())
	if result == "success" {
		AddCounter(OrderAmountTotal, float64(amount))
	}
}

// RecordTransition 记录订单状态流转
func RecordTransition(from, to string) {
	IncCounterVec(OrderTransitionsTotal, map[string]string{"from": from, "to": to})
}

// RecordStockAdjustment 记录库存变更
func RecordStockAdjustment(txType string, lowStock bool) {
	IncCounterVec(StockAdjustmentsTotal, map[string]string{"type": txType})
	if lowStock {
		IncCounter(LowStockTotal)
	}
}

// RecordDebit 记录扣款结果
func RecordDebit(result string) {
	IncCounterVec(DebitsTotal, map[string]string{"result": result})
}
