package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipclass/pkg/netaddr/xbatch"
	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
	"github.com/omeyang/ipclass/pkg/netaddr/xreport"
)

// 创建所有子命令。
func createCommands(a *app) []*cli.Command {
	return []*cli.Command{
		createAnalyzeCommand(a),
		createExamplesCommand(a),
		createClassesCommand(a),
		createInteractiveCommand(a),
	}
}

// createAnalyzeCommand 创建 analyze 子命令。
func createAnalyzeCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "校验并分类 IPv4 地址",
		ArgsUsage: "[addr...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "按行读取输入（- 表示 stdin），跳过空行与 # 注释",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "并发度，默认取配置 batch.workers",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.cmdAnalyze(ctx, a.restoreArgs(cmd.Args().Slice()), cmd.String("file"), cmd.Int("workers"))
		},
	}
}

// createExamplesCommand 创建 examples 子命令。
func createExamplesCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "examples",
		Aliases:   []string{"e"},
		Usage:     "列出预置示例，或分析第 n 个示例",
		ArgsUsage: "[n]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.cmdExamples(ctx, a.restoreArgs(cmd.Args().Slice()))
		},
	}
}

// createClassesCommand 创建 classes 子命令。
func createClassesCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "classes",
		Usage: "打印 A-E 类别参考表",
		Action: func(_ context.Context, _ *cli.Command) error {
			return xreport.RenderClasses(a.stdout, a.outputFormat())
		},
	}
}

// createInteractiveCommand 创建 interactive 子命令。
func createInteractiveCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i", "repl"},
		Usage:   "交互模式（REPL）",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return a.cmdInteractive(ctx)
		},
	}
}

// cmdAnalyze 分析参数与文件中的输入，存在无效输入时退出码为 1。
func (a *app) cmdAnalyze(ctx context.Context, args []string, file string, workers int) error {
	if len(args) == 0 && file == "" {
		return usagef("analyze 需要至少一个地址，或使用 --file 指定输入")
	}
	if workers < 0 {
		return usagef("--workers 不能为负数: %d", workers)
	}

	inputs := append([]string(nil), args...)
	if file != "" {
		fromFile, err := a.readInputFile(file)
		if err != nil {
			return err
		}
		inputs = append(inputs, fromFile...)
	}

	analyzer, err := a.batchAnalyzer(workers)
	if err != nil {
		return err
	}
	results, err := analyzer.AnalyzeAll(ctx, inputs)
	if err != nil {
		return err
	}
	return a.renderResults(results)
}

func (a *app) readInputFile(path string) ([]string, error) {
	var r io.Reader = a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("打开输入文件失败: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return xbatch.ReadInputs(r)
}

// cmdExamples 无参数时列出预置示例；带序号时分析对应示例。
func (a *app) cmdExamples(ctx context.Context, args []string) error {
	presets := a.presets()
	if len(args) == 0 {
		writePresets(a.stdout, presets)
		return nil
	}
	if len(args) > 1 {
		return usagef("examples 最多接受一个序号参数")
	}
	input, err := presetAt(presets, args[0])
	if err != nil {
		return err
	}
	r := a.analyzer.Analyze(ctx, input)
	if err := xreport.Render(a.stdout, r, a.outputFormat()); err != nil {
		return err
	}
	if !r.Valid() {
		return &exitError{code: 1}
	}
	return nil
}

// presetAt 按 1 起始的序号取预置示例。
func presetAt(presets []string, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", usagef("无效的示例序号: %q", arg)
	}
	if n < 1 || n > len(presets) {
		return "", usagef("示例序号超出范围: %d（共 %d 个）", n, len(presets))
	}
	return presets[n-1], nil
}

func writePresets(w io.Writer, presets []string) {
	if len(presets) == 0 {
		fmt.Fprintln(w, "（未配置预置示例）")
		return
	}
	for i, p := range presets {
		fmt.Fprintf(w, "%3d. %s\n", i+1, p)
	}
}

func (a *app) renderResults(results []xipv4.Result) error {
	if err := xreport.RenderAll(a.stdout, results, a.outputFormat()); err != nil {
		return err
	}
	if xbatch.CountInvalid(results) > 0 {
		return &exitError{code: 1}
	}
	return nil
}
