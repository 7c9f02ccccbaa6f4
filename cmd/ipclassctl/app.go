package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipclass/pkg/config/xconf"
	"github.com/omeyang/ipclass/pkg/netaddr/xbatch"
	"github.com/omeyang/ipclass/pkg/netaddr/xreport"
	"github.com/omeyang/ipclass/pkg/observability/xlog"
	"github.com/omeyang/ipclass/pkg/observability/xmetrics"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示参数错误，映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// app 持有一次运行的 I/O 与由配置派生的组件。
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu       sync.RWMutex
	cfg      *xconf.Config
	settings xconf.Settings
	format   xreport.Format

	// pinnedFormat/pinnedLevel 表示命令行显式指定，热更新不覆盖
	pinnedFormat bool
	pinnedLevel  bool

	// blankArgs 记录被 protectBlankArgs 替换掉的纯空白参数原文
	blankArgs []string

	logger   xlog.LoggerWithLevel
	cleanup  func() error
	observer xmetrics.Observer
	analyzer *xbatch.Analyzer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		settings: xconf.Defaults(),
		format:   xreport.FormatText,
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
	}
}

// setup 加载配置、合并全局 flag，并构建日志、观测与批量分析器。
func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	settings := xconf.Defaults()
	if path := cmd.String("config"); path != "" {
		cfg, err := xconf.Load(path)
		if err != nil {
			return ctx, err
		}
		a.cfg = cfg
		settings = cfg.Settings()
	}

	if cmd.IsSet("format") {
		settings.Output.Format = cmd.String("format")
	}
	if cmd.IsSet("log-level") {
		settings.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		settings.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		settings.Log.File = cmd.String("log-file")
	}
	if err := settings.Validate(); err != nil {
		return ctx, &usageError{msg: err.Error()}
	}
	format, err := xreport.ParseFormat(settings.Output.Format)
	if err != nil {
		return ctx, &usageError{msg: err.Error()}
	}

	logger, cleanup, err := buildLogger(a.stderr, settings.Log)
	if err != nil {
		return ctx, err
	}

	observer, err := xmetrics.NewOTelObserver()
	if err != nil {
		_ = cleanup()
		return ctx, err
	}

	analyzer, err := xbatch.New(
		xbatch.WithWorkers(settings.Batch.Workers),
		xbatch.WithCacheSize(settings.Batch.CacheSize),
		xbatch.WithObserver(observer),
		xbatch.WithLogger(logger),
	)
	if err != nil {
		_ = cleanup()
		return ctx, err
	}

	a.mu.Lock()
	a.settings = settings
	a.format = format
	a.pinnedFormat = cmd.IsSet("format")
	a.pinnedLevel = cmd.IsSet("log-level")
	a.mu.Unlock()
	a.logger = logger
	a.cleanup = cleanup
	a.observer = observer
	a.analyzer = analyzer

	if a.cfg != nil {
		logger.Debug(ctx, "config loaded", slog.String("path", a.cfg.Path()))
	}
	return ctx, nil
}

func (a *app) teardown(context.Context, *cli.Command) error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}

func buildLogger(stderr io.Writer, s xconf.LogSettings) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(s.Level).
		SetFormat(s.Format)
	if r, ok := s.Rotation(); ok {
		b.SetRotation(r)
	}
	return b.Build()
}

// batchAnalyzer 返回批量分析器；workers > 0 时返回使用该并发度的新实例。
func (a *app) batchAnalyzer(workers int) (*xbatch.Analyzer, error) {
	if workers <= 0 || workers == a.analyzer.Workers() {
		return a.analyzer, nil
	}
	a.mu.RLock()
	cacheSize := a.settings.Batch.CacheSize
	a.mu.RUnlock()
	return xbatch.New(
		xbatch.WithWorkers(workers),
		xbatch.WithCacheSize(cacheSize),
		xbatch.WithObserver(a.observer),
		xbatch.WithLogger(a.logger),
	)
}

func (a *app) presets() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.settings.Presets...)
}

func (a *app) outputFormat() xreport.Format {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.format
}

func (a *app) setOutputFormat(s string) error {
	f, err := xreport.ParseFormat(s)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.format = f
	a.mu.Unlock()
	return nil
}

// applyReload 应用热更新后的配置：预置示例、日志级别与输出格式。
// 命令行显式指定的 --format 与 --log-level 优先于配置文件。
func (a *app) applyReload(ctx context.Context, s xconf.Settings) {
	a.mu.Lock()
	a.settings.Presets = s.Presets
	if !a.pinnedFormat {
		if f, err := xreport.ParseFormat(s.Output.Format); err == nil {
			a.format = f
			a.settings.Output.Format = s.Output.Format
		}
	}
	pinnedLevel := a.pinnedLevel
	a.mu.Unlock()

	if !pinnedLevel {
		if level, err := xlog.ParseLevel(s.Log.Level); err == nil {
			a.logger.SetLevel(level)
		}
	}
	a.logger.Info(ctx, "config reloaded",
		slog.Int("presets", len(s.Presets)),
		slog.String("level", a.logger.GetLevel().ConfigName()),
	)
}

// blankArgPrefix 标记纯空白的位置参数。
// urfave/cli 遇到纯空白参数会停止解析并丢弃其后的全部参数，
// 因此解析前替换为占位符，命令内用 restoreArgs 还原。
const blankArgPrefix = "\x00blank:"

// protectBlankArgs 替换 args 中的纯空白位置参数。
// 紧跟在不含 "=" 的 flag 之后的空白参数是 flag 的取值，保持原样。
func (a *app) protectBlankArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if i == 0 || strings.TrimSpace(arg) != "" || isFlagWithoutValue(args[i-1]) {
			continue
		}
		out[i] = blankArgPrefix + strconv.Itoa(len(a.blankArgs))
		a.blankArgs = append(a.blankArgs, arg)
	}
	return out
}

func isFlagWithoutValue(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && arg != "--" && !strings.Contains(arg, "=")
}

// restoreArgs 将占位符还原为原始的空白参数。
func (a *app) restoreArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		rest, ok := strings.CutPrefix(arg, blankArgPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n < len(a.blankArgs) {
			out[i] = a.blankArgs[n]
		}
	}
	return out
}
