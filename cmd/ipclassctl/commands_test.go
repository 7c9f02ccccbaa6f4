package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ipclass/pkg/config/xconf"
	"github.com/omeyang/ipclass/pkg/netaddr/xreport"
	"github.com/omeyang/ipclass/pkg/observability/xlog"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"ipclassctl"}, args...),
		strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyze_Valid(t *testing.T) {
	res := runCLI(t, "", "analyze", "192.168.1.1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✅ Valid IPv4 Address")
	assert.Contains(t, res.stdout, "Class C")
	assert.Contains(t, res.stdout, "192.168.1")
}

func TestAnalyze_InvalidExitsOne(t *testing.T) {
	res := runCLI(t, "", "analyze", "10.0.0.1", "192.168.01.1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "✅ Valid IPv4 Address")
	assert.Contains(t, res.stdout, "❌ Invalid IPv4 Address")
	assert.Contains(t, res.stdout, "Octet 3 (01) has a leading zero")
	assert.Empty(t, res.stderr)
}

func TestAnalyze_BlankArgument(t *testing.T) {
	res := runCLI(t, "", "analyze", "  ")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "⚠️ Error")
	assert.Contains(t, res.stdout, "Please enter an IP address")
}

func TestAnalyze_BlankAmongAddresses(t *testing.T) {
	res := runCLI(t, "", "analyze", "1.2.3.4", "  ")
	assert.Equal(t, 1, res.code, res.stderr)
	assert.Contains(t, res.stdout, "✅ Valid IPv4 Address")
	assert.Contains(t, res.stdout, "⚠️ Error")
	assert.Contains(t, res.stdout, "Please enter an IP address")

	res = runCLI(t, "", "-f", "json", "analyze", "", "10.0.0.1", " ")
	require.Equal(t, 1, res.code, res.stderr)
	var reports []xreport.Report
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 3)
	assert.False(t, reports[0].Valid)
	assert.Equal(t, "10.0.0.1", reports[1].Input)
	assert.False(t, reports[2].Valid)
}

func TestProtectBlankArgs(t *testing.T) {
	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	args := []string{"ipclassctl", "analyze", "  ", "--file", " ", "--workers=2", "", "1.1.1.1"}
	protected := a.protectBlankArgs(args)

	assert.NotEqual(t, "  ", protected[2])
	assert.Equal(t, " ", protected[4], "flag 的取值保持原样")
	assert.NotEqual(t, "", protected[6])
	assert.Equal(t, "1.1.1.1", protected[7])
	assert.Equal(t, args, a.restoreArgs(protected))
}

func TestAnalyze_NoInput(t *testing.T) {
	res := runCLI(t, "", "analyze")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "参数错误")
}

func TestAnalyze_JSON(t *testing.T) {
	res := runCLI(t, "", "-f", "json", "analyze", "10.0.0.1", "1.2.3")
	require.Equal(t, 1, res.code)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, true, reports[0]["valid"])
	assert.Equal(t, "A", reports[0]["class"])
	assert.Equal(t, "10.0.0.0/8", reports[0]["network_prefix"])
	assert.Equal(t, false, reports[1]["valid"])
	assert.Equal(t, "wrong_octet_count", reports[1]["reason"])
}

func TestAnalyze_YAML(t *testing.T) {
	res := runCLI(t, "", "--format", "yaml", "analyze", "224.0.0.1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "class: D")
	assert.Contains(t, res.stdout, "network_id: N/A (Multicast/Experimental)")
}

func TestAnalyze_FileAndStdin(t *testing.T) {
	path := writeTemp(t, "hosts.txt", "# lab hosts\n10.1.2.3\n\n172.16.0.9\n")
	res := runCLI(t, "", "-f", "json", "analyze", "--file", path, "--workers", "2")
	require.Equal(t, 0, res.code, res.stderr)
	var reports []xreport.Report
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "10.1.2.3", reports[0].Input)
	assert.Equal(t, "B", reports[1].Class)

	res = runCLI(t, "8.8.8.8\n300.1.1.1\n", "-f", "json", "analyze", "--file=-", "1.1.1.1")
	require.Equal(t, 1, res.code)
	reports = nil
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 3)
	assert.Equal(t, "1.1.1.1", reports[0].Input)
	assert.Equal(t, "8.8.8.8", reports[1].Input)
	assert.Equal(t, "out_of_range", reports[2].Reason)
}

func TestAnalyze_MissingFile(t *testing.T) {
	res := runCLI(t, "", "analyze", "--file", filepath.Join(t.TempDir(), "none.txt"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "打开输入文件失败")
}

func TestAnalyze_NegativeWorkers(t *testing.T) {
	res := runCLI(t, "", "analyze", "--workers=-1", "1.1.1.1")
	assert.Equal(t, 2, res.code)
}

func TestGlobalFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"-f", "xml", "analyze", "1.1.1.1"}},
		{"unknown log level", []string{"--log-level", "loud", "analyze", "1.1.1.1"}},
		{"unknown log format", []string{"--log-format", "xml", "analyze", "1.1.1.1"}},
		{"unknown flag", []string{"--bogus", "analyze", "1.1.1.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, 2, res.code, res.stderr)
		})
	}
}

func TestExamples(t *testing.T) {
	res := runCLI(t, "", "examples")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "  1. 192.168.1.1")
	assert.Contains(t, res.stdout, "  9. 1.2.3")

	res = runCLI(t, "", "examples", "2")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Class A")

	res = runCLI(t, "", "e", "8")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "❌ Invalid IPv4 Address")

	for _, arg := range []string{"0", "99", "x"} {
		res = runCLI(t, "", "examples", arg)
		assert.Equal(t, 2, res.code, arg)
	}
	res = runCLI(t, "", "examples", "1", "2")
	assert.Equal(t, 2, res.code)
}

func TestClasses(t *testing.T) {
	res := runCLI(t, "", "classes")
	require.Equal(t, 0, res.code)
	for _, c := range []string{"Class A", "Class B", "Class C", "Class D", "Class E"} {
		assert.Contains(t, res.stdout, c)
	}
	assert.Contains(t, res.stdout, "16,777,214")

	res = runCLI(t, "", "-f", "json", "classes")
	require.Equal(t, 0, res.code)
	var rows []xreport.ClassRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	assert.Len(t, rows, 5)
}

func TestConfigFile(t *testing.T) {
	path := writeTemp(t, "ipclass.yaml", `
output:
  format: json
presets:
  - 8.8.4.4
  - 127.0.0.1
`)
	res := runCLI(t, "", "-c", path, "examples")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "  1. 8.8.4.4\n  2. 127.0.0.1\n", res.stdout)

	res = runCLI(t, "", "--config", path, "examples", "2")
	require.Equal(t, 0, res.code, res.stderr)
	var report xreport.Report
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, "Unknown", report.Class)

	// 命令行 --format 优先于配置
	res = runCLI(t, "", "-c", path, "-f", "text", "examples", "1")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "✅ Valid IPv4 Address")
}

func TestConfigFile_Invalid(t *testing.T) {
	path := writeTemp(t, "ipclass.yaml", "batch:\n  workers: 0\n")
	res := runCLI(t, "", "-c", path, "classes")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "batch.workers")

	res = runCLI(t, "", "-c", filepath.Join(t.TempDir(), "ipclass.toml"), "classes")
	assert.Equal(t, 1, res.code)
}

func TestLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ipclass.log")
	res := runCLI(t, "", "--log-level", "debug", "--log-format", "json", "--log-file", logPath, "analyze", "10.0.0.1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"analyzed"`)
	assert.Contains(t, string(data), `"class":"A"`)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exit", &exitError{code: 1}, 1},
		{"wrapped exit", fmt.Errorf("wrap: %w", &exitError{code: 3}), 3},
		{"usage", usagef("bad"), 2},
		{"cli usage", errors.New("flag provided but not defined: -x"), 2},
		{"runtime", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.want, exitCode(tt.err, &stderr))
		})
	}
}

func TestPresetAt(t *testing.T) {
	presets := []string{"a", "b"}
	got, err := presetAt(presets, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	for _, arg := range []string{"0", "3", "-1", "two"} {
		_, err := presetAt(presets, arg)
		var usageErr *usageError
		assert.True(t, errors.As(err, &usageErr), arg)
	}
}

func TestWritePresets_Empty(t *testing.T) {
	var buf bytes.Buffer
	writePresets(&buf, nil)
	assert.Contains(t, buf.String(), "未配置预置示例")
}

func TestApplyReload(t *testing.T) {
	var stderr bytes.Buffer
	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &stderr)
	logger, _, err := xlog.New().SetOutput(&stderr).Build()
	require.NoError(t, err)
	a.logger = logger

	s := xconf.Defaults()
	s.Presets = []string{"9.9.9.9"}
	s.Output.Format = "yaml"
	s.Log.Level = "warn"
	a.applyReload(context.Background(), s)

	assert.Equal(t, []string{"9.9.9.9"}, a.presets())
	assert.Equal(t, xreport.FormatYAML, a.outputFormat())
	assert.Equal(t, xlog.LevelWarn, logger.GetLevel())

	a.pinnedFormat = true
	a.pinnedLevel = true
	s.Output.Format = "json"
	s.Log.Level = "debug"
	a.applyReload(context.Background(), s)
	assert.Equal(t, xreport.FormatYAML, a.outputFormat())
	assert.Equal(t, xlog.LevelWarn, logger.GetLevel())
}
