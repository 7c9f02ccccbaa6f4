// Package xbatch 批量分析 IPv4 输入。
//
// Analyzer 以 errgroup 限制并发度，结果顺序与输入一致；
// 重复输入命中 golang-lru 缓存，命中与未命中的结果完全相同。
// 每次分析通过 xmetrics.Observer 记录一个跨度。
//
//	a, err := xbatch.New(xbatch.WithWorkers(8), xbatch.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	results, err := a.AnalyzeReader(ctx, os.Stdin)
package xbatch
