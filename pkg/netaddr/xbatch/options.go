package xbatch

import (
	"github.com/omeyang/ipclass/pkg/observability/xlog"
	"github.com/omeyang/ipclass/pkg/observability/xmetrics"
)

type options struct {
	workers   int
	cacheSize int
	observer  xmetrics.Observer
	logger    xlog.Logger
}

// Option 定义 Analyzer 配置选项。
type Option func(*options)

func defaultOptions() *options {
	return &options{
		workers:   DefaultWorkers,
		cacheSize: DefaultCacheSize,
		observer:  xmetrics.NoopObserver{},
		logger:    xlog.Discard(),
	}
}

// WithWorkers 设置并发度，必须 >= 1。
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCacheSize 设置缓存容量，0 关闭缓存。
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithObserver 设置观测器，nil 忽略。
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger 设置日志，nil 忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
