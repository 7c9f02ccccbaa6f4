// Package xmetrics 为 IPv4 分析提供统一的观测接口。
//
// 每次分析通过 Observer.Start 开始一个跨度，结束时以 Outcome 调用 Span.End。
// OpenTelemetry 实现记录：
//   - 计数器 ipclass.analysis.total{operation, outcome, class, reason}
//   - 直方图 ipclass.analysis.duration（秒）
//   - 一个 span，无效输入时状态为 Error
//
// 未配置观测时使用 NoopObserver，或直接调用包级 Start(nil observer)。
package xmetrics
