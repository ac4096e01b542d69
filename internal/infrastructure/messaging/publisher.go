// Package messaging 把领域事件发布到RabbitMQ
//
// 事件在事务提交后发布,失败只记日志和指标,不影响已提交的业务结果。
// 发布前经过熔断器:Broker故障时快速失败,不让每个请求都卡在发布超时上。
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/event"
	"github.com/xiebiao/electromart/pkg/metrics"
)

// messagePublisher mq.Publisher的子集
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Options 熔断和超时参数
type Options struct {
	Name           string        // 熔断器名称(指标标签)
	PublishTimeout time.Duration // 单次发布超时
	MaxRequests    uint32        // 半开状态允许的探测请求数
	Interval       time.Duration // 关闭状态下统计窗口
	OpenTimeout    time.Duration // 打开状态持续时间,之后进入半开
	MaxFailures    uint32        // 连续失败多少次后熔断
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Name:           "rabbitmq-publisher",
		PublishTimeout: 2 * time.Second,
		MaxRequests:    1,
		Interval:       30 * time.Second,
		OpenTimeout:    30 * time.Second,
		MaxFailures:    5,
	}
}

// EventPublisher 带熔断的事件发布者,实现event.Publisher
type EventPublisher struct {
	pub     messagePublisher
	cb      *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	name    string
	logger  *zap.Logger
}

// NewEventPublisher 创建事件发布者
func NewEventPublisher(pub messagePublisher, opts Options, logger *zap.Logger) *EventPublisher {
	p := &EventPublisher{
		pub:     pub,
		timeout: opts.PublishTimeout,
		name:    opts.Name,
		logger:  logger,
	}

	p.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": opts.Name}, float64(gobreaker.StateClosed))

	return p
}

// Publish 发布事件,routing key即事件类型
func (p *EventPublisher) Publish(ctx context.Context, e event.Event) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		pubCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			pubCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return struct{}{}, p.pub.Publish(pubCtx, e.Type, e)
	})

	labels := map[string]string{"routing_key": e.Type, "status": "success"}
	switch {
	case err == nil:
		metrics.IncCounterVec(metrics.CircuitBreakerRequestsTotal, map[string]string{"name": p.name, "result": "success"})
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		labels["status"] = "rejected"
		metrics.IncCounterVec(metrics.CircuitBreakerRequestsTotal, map[string]string{"name": p.name, "result": "rejected"})
	default:
		labels["status"] = "failure"
		metrics.IncCounterVec(metrics.CircuitBreakerRequestsTotal, map[string]string{"name": p.name, "result": "failure"})
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, labels)

	if err != nil {
		p.logger.Warn("事件发布失败", zap.String("type", e.Type), zap.Error(err))
	}
	return err
}

// State 熔断器当前状态
func (p *EventPublisher) State() gobreaker.State {
	return p.cb.State()
}

var _ event.Publisher = (*EventPublisher)(nil)
