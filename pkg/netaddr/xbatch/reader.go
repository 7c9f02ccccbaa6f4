package xbatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
)

// EachLine 逐行读取 r 并调用 fn，行尾的 \n 与 \r\n 会被去掉。
// 单行长度不受限制，超长行交给分析器判为无效而不是中断读取。
// fn 返回 false 时停止读取并返回 nil。
func EachLine(r io.Reader, fn func(line string) bool) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if !fn(strings.TrimRight(line, "\r\n")) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
	}
}

// ReadInputs 按行读取输入，跳过空行和以 # 开头的注释行。
// 返回的每项已去除首尾空白。
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	err := EachLine(r, func(line string) bool {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			inputs = append(inputs, line)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// AnalyzeReader 读取 r 中的输入并调用 AnalyzeAll。
// 结果与读到的有效行一一对应。
func (a *Analyzer) AnalyzeReader(ctx context.Context, r io.Reader) ([]xipv4.Result, error) {
	inputs, err := ReadInputs(r)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeAll(ctx, inputs)
}
