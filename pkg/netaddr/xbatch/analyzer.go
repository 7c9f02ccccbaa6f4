package xbatch

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
	"github.com/omeyang/ipclass/pkg/observability/xlog"
	"github.com/omeyang/ipclass/pkg/observability/xmetrics"
)

// 默认值。
const (
	DefaultWorkers   = 4
	DefaultCacheSize = 1024
)

// Stats 缓存命中统计。
type Stats struct {
	Hits   uint64
	Misses uint64
	// Size 当前缓存条目数。
	Size int
}

// Analyzer 对一批输入并发执行 [xipv4.Analyze]，重复输入命中 LRU 缓存。
// 零值不可用，必须通过 [New] 创建。所有方法并发安全。
type Analyzer struct {
	workers  int
	cache    *lru.Cache[string, xipv4.Result]
	observer xmetrics.Observer
	logger   xlog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New 创建 Analyzer。
func New(opts ...Option) (*Analyzer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.workers < 1 {
		return nil, ErrInvalidWorkers
	}
	if o.cacheSize < 0 {
		return nil, ErrInvalidCacheSize
	}

	a := &Analyzer{
		workers:  o.workers,
		observer: o.observer,
		logger:   o.logger.With(slog.String("component", "xbatch")),
	}
	if o.cacheSize > 0 {
		cache, err := lru.New[string, xipv4.Result](o.cacheSize)
		if err != nil {
			return nil, err
		}
		a.cache = cache
	}
	return a, nil
}

// Workers 返回并发度。
func (a *Analyzer) Workers() int {
	return a.workers
}

// Analyze 分析单个输入。
func (a *Analyzer) Analyze(ctx context.Context, raw string) xipv4.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.analyze(ctx, raw)
}

// AnalyzeAll 并发分析 inputs，结果与输入一一对应、顺序一致。
// 仅在 ctx 取消时返回错误，此时结果切片不完整。
func (a *Analyzer) AnalyzeAll(ctx context.Context, inputs []string) ([]xipv4.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := xmetrics.Start(ctx, a.observer, xmetrics.SpanOptions{
		Operation: xmetrics.OperationBatch,
		Size:      len(inputs),
	})
	start := time.Now()

	results := make([]xipv4.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, raw := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyze(gctx, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End(xmetrics.Outcome{Err: err})
		a.logger.Warn(ctx, "batch aborted", xlog.Err(err), slog.Int(xlog.KeyCount, len(inputs)))
		return nil, err
	}

	invalid := CountInvalid(results)
	span.End(xmetrics.Outcome{})
	a.logger.Debug(ctx, "batch analyzed",
		slog.Int(xlog.KeyCount, len(inputs)),
		slog.Int("invalid", invalid),
		slog.Duration(xlog.KeyDuration, time.Since(start)),
	)
	return results, nil
}

// Stats 返回缓存统计。
func (a *Analyzer) Stats() Stats {
	s := Stats{Hits: a.hits.Load(), Misses: a.misses.Load()}
	if a.cache != nil {
		s.Size = a.cache.Len()
	}
	return s
}

// Purge 清空缓存，统计计数不变。
func (a *Analyzer) Purge() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

func (a *Analyzer) analyze(ctx context.Context, raw string) xipv4.Result {
	key := strings.TrimSpace(raw)
	_, span := xmetrics.Start(ctx, a.observer, xmetrics.SpanOptions{
		Operation: xmetrics.OperationAnalyze,
		Input:     key,
	})

	r, cached := a.lookup(key)
	outcome := xmetrics.Outcome{Cached: cached, Err: r.Err}
	if r.Valid() {
		outcome.Class = r.Class.String()
		a.logger.Debug(ctx, "analyzed",
			slog.String("input", key),
			slog.String("class", outcome.Class),
			slog.Bool("cached", cached),
		)
	} else {
		outcome.Reason = r.Reason().String()
		a.logger.Debug(ctx, "rejected",
			slog.String("input", key),
			slog.String("reason", outcome.Reason),
			slog.Bool("cached", cached),
		)
	}
	span.End(outcome)
	return r
}

// lookup 结果完全由输入决定，缓存命中与重新计算等价。
func (a *Analyzer) lookup(key string) (xipv4.Result, bool) {
	if a.cache == nil {
		a.misses.Add(1)
		return xipv4.Analyze(key), false
	}
	if r, ok := a.cache.Get(key); ok {
		a.hits.Add(1)
		return r, true
	}
	a.misses.Add(1)
	r := xipv4.Analyze(key)
	a.cache.Add(key, r)
	return r, false
}

// CountInvalid 返回无效结果数量。
func CountInvalid(results []xipv4.Result) int {
	n := 0
	for _, r := range results {
		if !r.Valid() {
			n++
		}
	}
	return n
}
