package xreport

import "errors"

var (
	// ErrUnknownFormat 表示不支持的输出格式。
	ErrUnknownFormat = errors.New("xreport: unknown output format")

	// ErrEncodeFailed 表示 JSON/YAML 编码失败。
	ErrEncodeFailed = errors.New("xreport: encode failed")
)
