package xmetrics

import "context"

// 观测操作名。
const (
	// OperationAnalyze 单个地址分析。
	OperationAnalyze = "analyze"
	// OperationBatch 一批地址分析。
	OperationBatch = "analyze_batch"
)

// Outcome 标签取值。
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// SpanOptions 定义观测跨度的创建参数。
type SpanOptions struct {
	// Operation 标识操作名称，为空时记为 "unknown"。
	Operation string
	// Input 原始输入，仅记录到 span 属性，不进入指标标签。
	Input string
	// Size 批量操作的输入数量。
	Size int
}

// Outcome 表示一次分析的结果。
type Outcome struct {
	// Class 类别字母（A..E）或 "Unknown"，无效输入为空。
	Class string
	// Reason 校验失败原因标签，有效输入为空。
	Reason string
	// Cached 结果是否来自缓存。
	Cached bool
	// Err 非 nil 表示输入无效或运行时错误。
	Err error
}

// Valid 报告结果是否为有效地址。
func (o Outcome) Valid() bool {
	return o.Err == nil
}

// Span 表示一次观测跨度。
type Span interface {
	// End 结束观测并记录结果，多次调用只记录一次。
	End(outcome Outcome)
}

// Observer 定义分析观测接口。
type Observer interface {
	// Start 开始一次观测跨度。
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 是空实现。
type NoopObserver struct{}

// Start 返回 ctx 和空跨度。若 ctx 为 nil，返回 context.Background()。
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 是空跨度实现。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(Outcome) {}

// Start 使用 observer 开始观测，保证返回非 nil 的 ctx 和 Span。
// nil observer 或自定义 Observer 返回 nil 值时兜底为空实现。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
