package xipv4

import (
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// Result 是一次完整分析的结果。
//
// Err 为 nil 时为有效结果，其余字段均已填充；
// Err 非 nil 时为无效结果，仅 Input 和 Err 有意义。
// Result 完全由输入派生，相同输入总得到相同结果。
type Result struct {
	// Input 是 trim 后参与校验的文本。
	Input string

	// Address 是解析得到的地址。
	Address Address

	// Class 是地址类别。
	Class Class

	// NetworkID 是按默认掩码得到的网络号，D/E/未知类别为不适用标记。
	NetworkID string

	// HostID 是按默认掩码得到的主机号，D/E/未知类别为不适用标记。
	HostID string

	// FirstOctet 是首段数值。
	FirstOctet uint8

	// Err 是校验错误，总是 [*ValidationError]。
	Err error
}

// Valid 报告结果是否有效。
func (r Result) Valid() bool {
	return r.Err == nil
}

// Reason 返回失败原因，有效结果返回 [ReasonNone]。
func (r Result) Reason() Reason {
	return ReasonOf(r.Err)
}

// Message 返回失败原因的解释文本，有效结果返回空字符串。
func (r Result) Message() string {
	return MessageOf(r.Err)
}

// Info 返回结果类别的参考数据。
func (r Result) Info() ClassInfo {
	return Info(r.Class)
}

// NetworkPrefix 返回按类别默认掩码得到的网络前缀，如 192.168.1.0/24。
// 仅 A/B/C 类的有效结果返回 true。
func (r Result) NetworkPrefix() (netip.Prefix, bool) {
	if !r.Valid() || !r.Class.IsUnicast() {
		return netip.Prefix{}, false
	}
	bits := Info(r.Class).NetworkBits
	return netip.PrefixFrom(r.Address.Addr(), bits).Masked(), true
}

// NetworkRange 返回默认网络覆盖的地址区间，如 192.168.1.0-192.168.1.255。
func (r Result) NetworkRange() (netipx.IPRange, bool) {
	p, ok := r.NetworkPrefix()
	if !ok {
		return netipx.IPRange{}, false
	}
	return netipx.RangeOfPrefix(p), true
}

// Analyze 对原始输入执行完整分析：trim、空输入检查、校验、分类、拆分网络号和主机号。
//
// 空输入在进入八位段解析前即被拒绝，Err 为 [ErrBlankInput]。
// Analyze 是纯函数，可在任意 goroutine 中并发调用。
func Analyze(raw string) Result {
	input := strings.TrimSpace(raw)
	addr, err := Validate(input)
	if err != nil {
		return Result{Input: input, Err: err}
	}

	first := addr.FirstOctet()
	class := Classify(first)
	networkID, hostID := NetworkAndHost(addr, class)
	return Result{
		Input:      input,
		Address:    addr,
		Class:      class,
		NetworkID:  networkID,
		HostID:     hostID,
		FirstOctet: first,
	}
}
