// ipclassctl 校验 IPv4 点分十进制地址并按传统 A-E 类别分类。
//
// 用法:
//
//	ipclassctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径 (.yaml/.yml/.json)，也可通过 IPCLASS_CONFIG 指定
//	-f, --format      输出格式: text | json | yaml (默认: text)
//	    --log-level   日志级别: debug | info | warn | error
//	    --log-format  日志格式: text | json
//	    --log-file    日志文件，设置后按配置轮转
//
// 命令:
//
//	analyze [addr...]   分析地址，--file 按行读取（- 表示 stdin）
//	examples [n]        列出预置示例，或分析第 n 个示例
//	classes             打印 A-E 类别参考表
//	interactive         交互模式（REPL）
//
// 退出码:
//
//	0: 所有输入均为有效地址
//	1: 存在无效输入或运行时错误
//	2: 参数错误（未知格式、缺少参数、未知 flag 等）
//
// 示例:
//
//	ipclassctl analyze 192.168.1.1 10.0.0.1
//	ipclassctl -f json analyze 172.16.5.4
//	ipclassctl analyze --file hosts.txt --workers 8
//	cat hosts.txt | ipclassctl analyze --file -
//	ipclassctl examples 3
//	ipclassctl -c ipclass.yaml interactive
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(ctx, cancel)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(a *app) *cli.Command {
	return &cli.Command{
		Name:      "ipclassctl",
		Usage:     "IPv4 地址校验与 A-E 类别分析",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    a.stdin,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (.yaml/.yml/.json)",
				Sources: cli.EnvVars("IPCLASS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "输出格式: text | json | yaml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别: debug | info | warn | error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式: text | json",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，为空时写 stderr",
			},
		},
		Commands:       createCommands(a),
		DefaultCommand: "help",
		Before:         a.setup,
		After:          a.teardown,
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// 替代 HandleExitCoder 的默认 os.Exit 行为，由 run() 统一映射退出码
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(a.stderr, err)
			}
		},
		Description: `ipclassctl 校验点分十进制 IPv4 地址（拒绝前导零、非十进制字符、越界八位段），
并按首段数值给出传统类别、默认掩码、网络号/主机号与容量。

交互模式命令:
  <地址>              分析输入
  :examples           列出预置示例
  :N                  分析第 N 个示例
  :format <格式>      切换输出格式 (text/json/yaml)
  :help               显示帮助
  quit / exit         退出`,
	}
}

// run 执行应用并映射退出码。
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	err := createApp(a).Run(ctx, a.protectBlankArgs(args))
	return exitCode(err, stderr)
}

// exitCode 将命令错误映射为文档约定的退出码。
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// cliUsageMarkers urfave/cli 与 flag 解析器产生的参数错误特征。
var cliUsageMarkers = []string{
	"flag provided but not defined",
	"flag needs an argument",
	"invalid value",
	"No help topic for",
	"Required flag",
	"required flag",
}

func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, m := range cliUsageMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// setupSignalHandler 第一次信号优雅取消，第二次强制退出。
func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}
		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
