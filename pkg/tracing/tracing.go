// Package tracing 基于OpenTelemetry的链路追踪
//
// 每个用例在入口创建一个Span，仓储和事务调用沿用同一个ctx，
// 在Jaeger UI中可以看到一次下单的完整链路：
//
//	Trace: POST /api/v1/checkout
//	└─ Span: checkout.Execute
//	   ├─ 读取购物车
//	   ├─ 扣减库存（inventory.AdjustStock × N）
//	   └─ 记录扣款（banking.RecordDebit）
//
// 日志通过ExtractTraceID关联追踪（见pkg/logger.WithContext）。
//
// 注意：
//   - 未配置Endpoint时只安装本地TracerProvider，Span照常生成但不导出
//   - 程序退出时必须调用shutdown，否则最后一批Span可能丢失
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName 本服务的Tracer名称
const TracerName = "electromart"

// Options 追踪配置
type Options struct {
	ServiceName string  // 服务名称（在Jaeger UI中显示）
	Endpoint    string  // OTLP gRPC端点，如 localhost:4317；为空时不导出
	SampleRatio float64 // 采样率，<=0 或 >=1 表示全部采样
}

// InitTracer 初始化全局Tracer Provider
//
// 返回的shutdown用于程序退出时刷新未发送的Span
func InitTracer(opts Options) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if opts.SampleRatio > 0 && opts.SampleRatio < 1 {
		// 生产环境按比例采样，跟随父Span的采样决定
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(res),
	}

	if opts.Endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(opts.Endpoint),
			otlptracegrpc.WithInsecure(), // 内网Collector，未启用TLS
		)
		if err != nil {
			return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
		}
		// BatchSpanProcessor批量发送，性能优于SimpleSpanProcessor
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// StartSpan 创建一个新的Span
//
// 必须使用返回的ctx调用下游函数，否则无法构建调用树
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// EndSpan 结束Span，err非空时记录错误并标记失败
//
//	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "checkout.Execute")
//	defer func() { tracing.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
