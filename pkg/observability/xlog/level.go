package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 是 log.level 配置项与 --log-level 的取值，数值与 slog.Level 一致，
// 可直接交给 slog.LevelVar 做热更新。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// configNames 配置文件中的写法；warning 仅作为输入别名
var configNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

var levelAliases = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String 与 slog 输出中的 level 字段一致，如 "WARN"、"INFO+2"。
func (l Level) String() string {
	return slog.Level(l).String()
}

// ConfigName 返回写回配置文件时使用的小写名称。
// 非标准级别没有配置写法，退化为 String()。
func (l Level) ConfigName() string {
	if name, ok := configNames[l]; ok {
		return name
	}
	return l.String()
}

// MarshalText 输出 ConfigName，保证编码结果能被 ParseLevel 读回。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.ConfigName()), nil
}

// UnmarshalText 解析失败时保持原值不变。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析 log.level 的取值，忽略大小写与首尾空白。
// 无法识别时返回 LevelInfo 和 ErrUnknownLevel，调用方可按需回退到默认级别。
func ParseLevel(s string) (Level, error) {
	if l, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
