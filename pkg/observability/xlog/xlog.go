package xlog

import (
	"context"
	"log/slog"
)

// Logger 是分析器与 CLI 共用的日志入口。
// 每次调用都带 ctx，批量分析时可与 xmetrics 的 span 对应起来。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 派生带固定属性的 Logger（例如 component=xbatch）。
	// 派生实例与父实例共用同一个级别，重载配置后一起生效。
	With(attrs ...slog.Attr) Logger
}

// Leveler 由 Build 返回的根 Logger 实现，交互模式收到新配置时通过它调整级别。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 是 Builder.Build 的返回类型。
type LoggerWithLevel interface {
	Logger
	Leveler
}
