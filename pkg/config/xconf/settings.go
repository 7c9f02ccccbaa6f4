package xconf

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/omeyang/ipclass/pkg/netaddr/xreport"
	"github.com/omeyang/ipclass/pkg/observability/xlog"
)

// Settings 是 ipclassctl 的完整配置快照。
// 字段通过 koanf 标签映射，配置文件中缺省的键保留 Defaults() 的值。
type Settings struct {
	Log     LogSettings    `koanf:"log"`
	Output  OutputSettings `koanf:"output"`
	Batch   BatchSettings  `koanf:"batch"`
	Presets []string       `koanf:"presets"`
}

// LogSettings 日志配置。
type LogSettings struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// OutputSettings 分析结果输出配置。
type OutputSettings struct {
	Format string `koanf:"format"`
}

// BatchSettings 批量分析配置。
type BatchSettings struct {
	Workers   int `koanf:"workers"`
	CacheSize int `koanf:"cache_size"`
}

// 默认值。
const (
	DefaultWorkers    = 4
	DefaultCacheSize  = 1024
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// defaultPresets 预置示例，覆盖每个类别以及常见的无效输入。
var defaultPresets = []string{
	"192.168.1.1",
	"10.0.0.1",
	"172.16.5.4",
	"224.0.0.1",
	"240.0.0.1",
	"127.0.0.1",
	"192.168.01.1",
	"192.168.1.256",
	"1.2.3",
}

// Defaults 返回默认配置。每次调用返回独立副本。
func Defaults() Settings {
	return Settings{
		Log: LogSettings{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAgeDays: DefaultMaxAgeDays,
		},
		Output: OutputSettings{Format: string(xreport.FormatText)},
		Batch: BatchSettings{
			Workers:   DefaultWorkers,
			CacheSize: DefaultCacheSize,
		},
		Presets: slices.Clone(defaultPresets),
	}
}

// Validate 检查配置取值，返回所有问题的合并错误。
func (s Settings) Validate() error {
	var errs []error
	if _, err := xlog.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(strings.TrimSpace(s.Log.Format)) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown %q", s.Log.Format))
	}
	if s.Log.MaxSizeMB < 0 || s.Log.MaxBackups < 0 || s.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log: rotation limits must not be negative"))
	}
	if _, err := xreport.ParseFormat(s.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if s.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers: must be >= 1, got %d", s.Batch.Workers))
	}
	if s.Batch.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("batch.cache_size: must be >= 0, got %d", s.Batch.CacheSize))
	}
	for i, p := range s.Presets {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: empty", i))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

// Rotation 将日志配置转换为 xlog 轮转参数。
// File 为空时 ok 返回 false，表示写 stderr。
func (l LogSettings) Rotation() (r xlog.Rotation, ok bool) {
	if strings.TrimSpace(l.File) == "" {
		return xlog.Rotation{}, false
	}
	return xlog.Rotation{
		Filename:   l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}, true
}
