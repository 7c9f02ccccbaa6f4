package xreport

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
)

// Format 是输出格式。
type Format string

// 支持的输出格式。
const (
	// FormatText 人类可读的文本面板（默认）。
	FormatText Format = "text"
	// FormatJSON 每次渲染输出一个 JSON 文档。
	FormatJSON Format = "json"
	// FormatYAML 每次渲染输出一个 YAML 文档。
	FormatYAML Format = "yaml"
)

// ParseFormat 解析输出格式，大小写不敏感，空字符串视为 text。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// usageHint 是失败面板中的静态格式说明。
var usageHint = []string{
	"Consist of exactly four octets separated by dots",
	"Each octet must be a number between 0 and 255",
	"No leading zeros (except for the number 0 itself)",
	"Only contain digits 0-9",
}

// Render 以指定格式输出单个分析结果。
func Render(w io.Writer, r xipv4.Result, f Format) error {
	switch f {
	case FormatText, "":
		return renderText(w, r)
	case FormatJSON:
		return encodeJSON(w, FromResult(r))
	case FormatYAML:
		return encodeYAML(w, FromResult(r))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// RenderAll 输出多个分析结果。
// text 格式下面板之间以空行分隔；json/yaml 格式输出单个数组文档。
func RenderAll(w io.Writer, results []xipv4.Result, f Format) error {
	switch f {
	case FormatText, "":
		for i, r := range results {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := renderText(w, r); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return encodeJSON(w, FromResults(results))
	case FormatYAML:
		return encodeYAML(w, FromResults(results))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// RenderClasses 输出 A~E 类别参考表。
func RenderClasses(w io.Writer, f Format) error {
	rows := ClassRows()
	switch f {
	case FormatText, "":
		pw := &panelWriter{w: w}
		for i, row := range rows {
			if i > 0 {
				pw.line("")
			}
			pw.line("Class " + row.Class)
			pw.field("Description", row.Description)
			pw.field("Range", row.Range)
			pw.field("Default Subnet Mask", row.SubnetMask)
			pw.field("Network Bits", row.NetworkBits)
			pw.field("Host Bits", row.HostBits)
			pw.field("Max Hosts", row.MaxHosts)
		}
		return pw.err
	case FormatJSON:
		return encodeJSON(w, rows)
	case FormatYAML:
		return encodeYAML(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func renderText(w io.Writer, r xipv4.Result) error {
	pw := &panelWriter{w: w}
	switch {
	case r.Valid():
		writeValid(pw, r)
	case isBlank(r):
		pw.line("⚠️ Error")
		pw.line(r.Message())
	default:
		writeInvalid(pw, r)
	}
	return pw.err
}

func writeValid(pw *panelWriter, r xipv4.Result) {
	info := r.Info()
	pw.line("✅ Valid IPv4 Address")
	pw.field("IP Address", r.Input)
	pw.field("Class", "Class "+r.Class.String())
	pw.field("", info.Description)
	pw.field("Range", info.RangeText())
	pw.field("Default Subnet Mask", info.MaskText())
	pw.field("Network ID", r.NetworkID)
	pw.field("Host ID", r.HostID)
	if info.HasCapacity() {
		pw.field("Network Bits", info.NetworkBitsText())
		pw.field("Host Bits", info.HostBitsText())
		pw.field("Max Hosts", info.MaxHostsText())
	}
}

func writeInvalid(pw *panelWriter, r xipv4.Result) {
	pw.line("❌ Invalid IPv4 Address")
	pw.field("Reason", r.Message())
	pw.line("")
	pw.line("A valid IPv4 address must:")
	for _, h := range usageHint {
		pw.line("  - " + h)
	}
	pw.field("Example", "192.168.1.1")
}

// panelWriter 记录首个写入错误，后续写入直接跳过。
type panelWriter struct {
	w   io.Writer
	err error
}

// labelWidth 是字段标签列宽，等于最长标签 "Default Subnet Mask:" 的长度 + 1。
const labelWidth = 21

func (p *panelWriter) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *panelWriter) field(label, value string) {
	if label != "" {
		label += ":"
	}
	p.line(fmt.Sprintf("%-*s%s", labelWidth, label, value))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	return nil
}
