package xmetrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/ipclass/xmetrics"
	unknownOperation           = "unknown"

	// MetricAnalysisTotal 分析次数计数器。
	MetricAnalysisTotal = "ipclass.analysis.total"
	// MetricAnalysisDuration 分析耗时直方图（秒）。
	MetricAnalysisDuration = "ipclass.analysis.duration"
)

// 指标与 span 属性 key。
const (
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
	AttrClass     = "class"
	AttrReason    = "reason"
	AttrInput     = "ipclass.input"
	AttrSize      = "ipclass.batch.size"
	AttrCached    = "ipclass.cached"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
// 未指定 provider 时使用 otel 全局 provider。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	tracer := cfg.tracerProvider.Tracer(cfg.instrumentationName)
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	total, err := meter.Int64Counter(
		MetricAnalysisTotal,
		metric.WithDescription("analysed IPv4 inputs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}

	duration, err := meter.Float64Histogram(
		MetricAnalysisDuration,
		metric.WithDescription("analysis duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateHistogram, err)
	}

	return &otelObserver{
		tracer:   tracer,
		total:    total,
		duration: duration,
	}, nil
}

type otelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// Start 开始一次观测跨度。
func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	operation := opts.Operation
	if operation == "" {
		operation = unknownOperation
	}

	attrs := []attribute.KeyValue{attribute.String(AttrOperation, operation)}
	if opts.Input != "" {
		attrs = append(attrs, attribute.String(AttrInput, opts.Input))
	}
	if opts.Size > 0 {
		attrs = append(attrs, attribute.Int(AttrSize, opts.Size))
	}

	ctx, span := o.tracer.Start(ctx, "ipclass."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &otelSpan{
		span:      span,
		observer:  o,
		ctx:       ctx,
		operation: operation,
		start:     time.Now(),
	}
}

type otelSpan struct {
	span      trace.Span
	observer  *otelObserver
	ctx       context.Context
	operation string
	start     time.Time
	endOnce   sync.Once
}

// End 结束观测并记录结果，幂等。
func (s *otelSpan) End(outcome Outcome) {
	if s == nil {
		return
	}
	s.endOnce.Do(func() {
		label := OutcomeValid
		if outcome.Valid() {
			s.span.SetStatus(codes.Ok, "")
		} else {
			label = OutcomeInvalid
			s.span.RecordError(outcome.Err)
			s.span.SetStatus(codes.Error, outcome.Err.Error())
		}

		spanAttrs := []attribute.KeyValue{
			attribute.String(AttrOutcome, label),
			attribute.Bool(AttrCached, outcome.Cached),
		}
		if outcome.Class != "" {
			spanAttrs = append(spanAttrs, attribute.String(AttrClass, outcome.Class))
		}
		if outcome.Reason != "" {
			spanAttrs = append(spanAttrs, attribute.String(AttrReason, outcome.Reason))
		}
		s.span.SetAttributes(spanAttrs...)
		s.span.End()

		// 使用不可取消的 context 记录指标，请求取消后指标仍然写入
		metricsCtx := context.WithoutCancel(s.ctx)
		attrs := metric.WithAttributes(metricAttrs(s.operation, label, outcome)...)
		s.observer.total.Add(metricsCtx, 1, attrs)
		s.observer.duration.Record(metricsCtx, time.Since(s.start).Seconds(), attrs)
	})
}

func metricAttrs(operation, label string, outcome Outcome) []attribute.KeyValue {
	var attrs [4]attribute.KeyValue
	attrs[0] = attribute.String(AttrOperation, operation)
	attrs[1] = attribute.String(AttrOutcome, label)
	attrs[2] = attribute.String(AttrClass, outcome.Class)
	attrs[3] = attribute.String(AttrReason, outcome.Reason)
	return attrs[:]
}
