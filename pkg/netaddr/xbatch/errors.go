package xbatch

import "errors"

var (
	// ErrInvalidWorkers 表示并发度小于 1。
	ErrInvalidWorkers = errors.New("xbatch: workers must be >= 1")

	// ErrInvalidCacheSize 表示缓存容量为负数。
	ErrInvalidCacheSize = errors.New("xbatch: cache size must be >= 0")

	// ErrReadInput 表示读取输入流失败。
	ErrReadInput = errors.New("xbatch: read input failed")
)
