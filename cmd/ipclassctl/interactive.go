package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/omeyang/ipclass/pkg/config/xconf"
	"github.com/omeyang/ipclass/pkg/netaddr/xbatch"
	"github.com/omeyang/ipclass/pkg/netaddr/xreport"
	"github.com/omeyang/ipclass/pkg/observability/xlog"
)

const prompt = "ipclass> "

const replHelp = `  <地址>              分析输入
  :examples           列出预置示例
  :N                  分析第 N 个示例
  :format <格式>      切换输出格式 (text/json/yaml)
  :help               显示帮助
  quit / exit         退出`

// cmdInteractive 交互模式（REPL）。配置来自文件时监视变更并热更新。
func (a *app) cmdInteractive(ctx context.Context) error {
	if a.cfg != nil {
		w, err := xconf.Watch(a.cfg, func(c *xconf.Config, err error) {
			if err != nil {
				a.logger.Warn(ctx, "config reload failed", xlog.Err(err))
				return
			}
			a.applyReload(ctx, c.Settings())
		})
		if err != nil {
			a.logger.Warn(ctx, "config watch disabled", xlog.Err(err))
		} else {
			w.Start()
			defer func() { _ = w.Stop() }()
		}
	}

	fmt.Fprintln(a.stdout, "ipclassctl 交互模式")
	fmt.Fprintln(a.stdout, "输入 IPv4 地址进行分析，':help' 查看命令，'quit' 或 'exit' 退出")
	fmt.Fprintln(a.stdout)

	return a.runREPL(ctx)
}

// startInputReader 启动输入读取 goroutine。
// inputCh 无缓冲，发送端用 select 保护，context 取消后 goroutine 不会永久阻塞。
func startInputReader(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	inputCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		err := xbatch.EachLine(r, func(line string) bool {
			select {
			case inputCh <- line:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			// 读取错误不关闭 inputCh，REPL 只会从 errCh 观察到结束
			errCh <- err
			return
		}
		close(inputCh)
	}()

	return inputCh, errCh
}

// runREPL 运行 REPL 循环，Ctrl+C 取消 ctx 后立即退出。
func (a *app) runREPL(ctx context.Context) error {
	inputCh, errCh := startInputReader(ctx, a.stdin)

	for {
		fmt.Fprint(a.stdout, prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(a.stdout, "\n再见!")
			return nil
		case err := <-errCh:
			return fmt.Errorf("读取输入错误: %w", err)
		case line, ok := <-inputCh:
			if !ok {
				fmt.Fprintln(a.stdout)
				return nil
			}
			if shouldExit := a.processLine(ctx, strings.TrimSpace(line)); shouldExit {
				return nil
			}
		}
	}
}

// processLine 处理单行输入，返回 true 表示应该退出。
func (a *app) processLine(ctx context.Context, line string) bool {
	switch {
	case line == "":
		return false
	case line == "quit" || line == "exit":
		fmt.Fprintln(a.stdout, "再见!")
		return true
	case strings.HasPrefix(line, ":"):
		a.processDirective(ctx, strings.Fields(line[1:]))
		return false
	default:
		a.analyzeAndPrint(ctx, line)
		return false
	}
}

// processDirective 处理以 ':' 开头的 REPL 指令。
func (a *app) processDirective(ctx context.Context, fields []string) {
	if len(fields) == 0 {
		fmt.Fprintln(a.stderr, "错误: 空指令，输入 :help 查看命令")
		return
	}
	switch name := fields[0]; name {
	case "help", "h", "?":
		fmt.Fprintln(a.stdout, replHelp)
	case "examples", "e":
		writePresets(a.stdout, a.presets())
	case "format", "f":
		if len(fields) != 2 {
			fmt.Fprintf(a.stdout, "当前输出格式: %s\n", a.outputFormat())
			return
		}
		if err := a.setOutputFormat(fields[1]); err != nil {
			fmt.Fprintf(a.stderr, "错误: %v\n", err)
			return
		}
		fmt.Fprintf(a.stdout, "输出格式已切换为 %s\n", a.outputFormat())
	default:
		if _, err := strconv.Atoi(name); err != nil {
			fmt.Fprintf(a.stderr, "错误: 未知指令 :%s\n", name)
			return
		}
		input, err := presetAt(a.presets(), name)
		if err != nil {
			fmt.Fprintf(a.stderr, "错误: %v\n", err)
			return
		}
		fmt.Fprintf(a.stdout, "%s\n", input)
		a.analyzeAndPrint(ctx, input)
	}
}

func (a *app) analyzeAndPrint(ctx context.Context, input string) {
	r := a.analyzer.Analyze(ctx, input)
	if err := xreport.Render(a.stdout, r, a.outputFormat()); err != nil {
		fmt.Fprintf(a.stderr, "错误: %v\n", err)
		return
	}
	fmt.Fprintln(a.stdout)
}
