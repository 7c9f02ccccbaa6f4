package xipv4

import (
	"net/netip"
	"strconv"
	"strings"

	"go4.org/netipx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ClassInfo 是某个地址类别的静态参考数据。
//
// 不适用的字段使用零值：D/E 类没有默认掩码，NetworkBits/HostBits/MaxHosts 为 0；
// 未知类别的 Range 也为零值。文本方法对 D/E 返回 "N/A"，对未知类别返回 "Unknown"。
type ClassInfo struct {
	// Class 是所属类别。
	Class Class

	// Description 是类别用途说明。
	Description string

	// Range 是首段范围对应的完整地址区间，如 1.0.0.0-126.255.255.255。
	Range netipx.IPRange

	// Mask 是默认子网掩码，仅 A/B/C 类有效。
	Mask netip.Addr

	// NetworkBits 是默认掩码的网络位数。
	NetworkBits int

	// HostBits 是默认掩码的主机位数。
	HostBits int

	// MaxHosts 是每个网络可用主机数（2^HostBits - 2）。
	MaxHosts uint64

	maxHostsText string
}

// HasCapacity 报告类别是否有网络容量信息（仅 A/B/C）。
func (i ClassInfo) HasCapacity() bool {
	return i.Class.IsUnicast()
}

// RangeText 返回 "1.0.0.0 to 126.255.255.255" 风格的范围文本。
func (i ClassInfo) RangeText() string {
	if !i.Range.IsValid() {
		return NotApplicableUnknown
	}
	return i.Range.From().String() + " to " + i.Range.To().String()
}

// MaskText 返回默认掩码文本。
func (i ClassInfo) MaskText() string {
	if i.Mask.IsValid() {
		return i.Mask.String()
	}
	return i.placeholder()
}

// NetworkBitsText 返回网络位数文本。
func (i ClassInfo) NetworkBitsText() string {
	if !i.HasCapacity() {
		return i.placeholder()
	}
	return strconv.Itoa(i.NetworkBits)
}

// HostBitsText 返回主机位数文本。
func (i ClassInfo) HostBitsText() string {
	if !i.HasCapacity() {
		return i.placeholder()
	}
	return strconv.Itoa(i.HostBits)
}

// MaxHostsText 返回带公式的最大主机数，如 "16,777,214 (2²⁴ - 2)"。
func (i ClassInfo) MaxHostsText() string {
	if !i.HasCapacity() {
		return i.placeholder()
	}
	return i.maxHostsText
}

func (i ClassInfo) placeholder() string {
	if i.Class.IsKnown() {
		return "N/A"
	}
	return NotApplicableUnknown
}

// Info 返回类别的静态参考数据。A~E 以外的类别返回未知占位记录。
func Info(class Class) ClassInfo {
	if info, ok := classTable[class]; ok {
		return info
	}
	return ClassInfo{Class: ClassUnknown, Description: "Unknown class"}
}

// Classes 按 A~E 顺序返回全部已知类别的参考数据。
func Classes() []ClassInfo {
	out := make([]ClassInfo, 0, len(classTable))
	for c := ClassA; c <= ClassE; c++ {
		out = append(out, classTable[c])
	}
	return out
}

// classTable 在包初始化时构建一次，之后只读。
var classTable = newClassTable()

func newClassTable() map[Class]ClassInfo {
	p := message.NewPrinter(language.English)

	unicast := func(c Class, desc string, lo, hi byte, bits int) ClassInfo {
		hostBits := 32 - bits
		maxHosts := uint64(1)<<hostBits - 2
		return ClassInfo{
			Class:        c,
			Description:  desc,
			Range:        firstOctetRange(lo, hi),
			Mask:         maskOf(bits),
			NetworkBits:  bits,
			HostBits:     hostBits,
			MaxHosts:     maxHosts,
			maxHostsText: p.Sprintf("%d", maxHosts) + " (2" + superscript(hostBits) + " - 2)",
		}
	}
	reserved := func(c Class, desc string, lo, hi byte) ClassInfo {
		return ClassInfo{
			Class:       c,
			Description: desc,
			Range:       firstOctetRange(lo, hi),
		}
	}

	return map[Class]ClassInfo{
		ClassA: unicast(ClassA, "Used for large networks with many hosts", 1, 126, 8),
		ClassB: unicast(ClassB, "Used for medium-sized networks", 128, 191, 16),
		ClassC: unicast(ClassC, "Used for small networks", 192, 223, 24),
		ClassD: reserved(ClassD, "Reserved for multicast addresses", 224, 239),
		ClassE: reserved(ClassE, "Reserved for experimental use", 240, 255),
	}
}

// firstOctetRange 返回首段 [lo,hi] 覆盖的地址区间。
func firstOctetRange(lo, hi byte) netipx.IPRange {
	return netipx.IPRangeFrom(
		netip.AddrFrom4([4]byte{lo, 0, 0, 0}),
		netip.AddrFrom4([4]byte{hi, 255, 255, 255}),
	)
}

// maskOf 返回 bits 位前缀对应的点分掩码。
func maskOf(bits int) netip.Addr {
	r := netipx.RangeOfPrefix(netip.PrefixFrom(netip.IPv4Unspecified(), bits))
	// 区间终点的按位取反即为掩码
	b := r.To().As4()
	for i := range b {
		b[i] = ^b[i]
	}
	return netip.AddrFrom4(b)
}

var superscriptDigits = [...]string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

func superscript(n int) string {
	var b strings.Builder
	for _, d := range strconv.Itoa(n) {
		b.WriteString(superscriptDigits[d-'0'])
	}
	return b.String()
}
