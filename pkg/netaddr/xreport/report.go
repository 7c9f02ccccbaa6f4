package xreport

import (
	"errors"

	"github.com/omeyang/ipclass/pkg/netaddr/xipv4"
)

// Report 是 [xipv4.Result] 的序列化视图，字段名与文本面板一一对应。
type Report struct {
	Valid         bool      `json:"valid" yaml:"valid"`
	Input         string    `json:"input" yaml:"input"`
	Class         string    `json:"class,omitempty" yaml:"class,omitempty"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	Range         string    `json:"range,omitempty" yaml:"range,omitempty"`
	SubnetMask    string    `json:"subnet_mask,omitempty" yaml:"subnet_mask,omitempty"`
	NetworkID     string    `json:"network_id,omitempty" yaml:"network_id,omitempty"`
	HostID        string    `json:"host_id,omitempty" yaml:"host_id,omitempty"`
	NetworkPrefix string    `json:"network_prefix,omitempty" yaml:"network_prefix,omitempty"`
	Capacity      *Capacity `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Reason        string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message       string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// Capacity 是 A/B/C 类的网络容量信息。
type Capacity struct {
	NetworkBits int    `json:"network_bits" yaml:"network_bits"`
	HostBits    int    `json:"host_bits" yaml:"host_bits"`
	MaxHosts    uint64 `json:"max_hosts" yaml:"max_hosts"`
}

// ClassRow 是类别参考表的一行。
type ClassRow struct {
	Class       string `json:"class" yaml:"class"`
	Description string `json:"description" yaml:"description"`
	Range       string `json:"range" yaml:"range"`
	SubnetMask  string `json:"subnet_mask" yaml:"subnet_mask"`
	NetworkBits string `json:"network_bits" yaml:"network_bits"`
	HostBits    string `json:"host_bits" yaml:"host_bits"`
	MaxHosts    string `json:"max_hosts" yaml:"max_hosts"`
}

// FromResult 将分析结果转换为 Report。
func FromResult(r xipv4.Result) Report {
	if !r.Valid() {
		return Report{
			Input:   r.Input,
			Reason:  r.Reason().String(),
			Message: r.Message(),
		}
	}

	info := r.Info()
	rep := Report{
		Valid:       true,
		Input:       r.Input,
		Class:       r.Class.String(),
		Description: info.Description,
		Range:       info.RangeText(),
		SubnetMask:  info.MaskText(),
		NetworkID:   r.NetworkID,
		HostID:      r.HostID,
	}
	if p, ok := r.NetworkPrefix(); ok {
		rep.NetworkPrefix = p.String()
	}
	if info.HasCapacity() {
		rep.Capacity = &Capacity{
			NetworkBits: info.NetworkBits,
			HostBits:    info.HostBits,
			MaxHosts:    info.MaxHosts,
		}
	}
	return rep
}

// FromResults 批量转换。
func FromResults(results []xipv4.Result) []Report {
	out := make([]Report, len(results))
	for i, r := range results {
		out[i] = FromResult(r)
	}
	return out
}

// ClassRows 返回 A~E 类别参考表。
func ClassRows() []ClassRow {
	infos := xipv4.Classes()
	rows := make([]ClassRow, len(infos))
	for i, info := range infos {
		rows[i] = ClassRow{
			Class:       info.Class.String(),
			Description: info.Description,
			Range:       info.RangeText(),
			SubnetMask:  info.MaskText(),
			NetworkBits: info.NetworkBitsText(),
			HostBits:    info.HostBitsText(),
			MaxHosts:    info.MaxHostsText(),
		}
	}
	return rows
}

// isBlank 报告结果是否因空输入被拒绝。空输入使用独立的错误面板。
func isBlank(r xipv4.Result) bool {
	return errors.Is(r.Err, xipv4.ErrBlankInput)
}
