package xipv4

import (
	"math"
	"net/netip"
	"strconv"
	"strings"
)

// Octet 是一个已校验的八位段，同时保留原始十进制文本。
type Octet struct {
	// Value 是八位段数值。
	Value uint8
	// Text 是输入中的原始文本，长度 1~3，无前导零（"0" 除外）。
	Text string
}

// Address 是通过校验的点分十进制 IPv4 地址。
// 只能由 [Validate] 构造，创建后不可变。
type Address struct {
	octets [4]Octet
}

// Octets 返回四个八位段的副本。
func (a Address) Octets() [4]Octet {
	return a.octets
}

// Octet 返回第 i 个八位段（0~3）。越界会 panic，与数组索引一致。
func (a Address) Octet(i int) Octet {
	return a.octets[i]
}

// FirstOctet 返回首段数值，分类只依赖它。
func (a Address) FirstOctet() uint8 {
	return a.octets[0].Value
}

// String 用 "." 连接四个八位段的原始文本。
// 对有效地址，结果再次传给 [Validate] 会得到相同的八位段。
func (a Address) String() string {
	return a.octets[0].Text + "." + a.octets[1].Text + "." + a.octets[2].Text + "." + a.octets[3].Text
}

// Addr 返回对应的 [netip.Addr]。
func (a Address) Addr() netip.Addr {
	return netip.AddrFrom4([4]byte{
		a.octets[0].Value,
		a.octets[1].Value,
		a.octets[2].Value,
		a.octets[3].Value,
	})
}

// Validate 解析点分十进制 IPv4 地址。
//
// 输入为空或仅含空白时返回 [ErrBlankInput]。其余检查按固定顺序执行，
// 首个失败即返回，后续检查不再运行：
//
//  1. 段数必须为 4
//  2. 对每一段依次检查：非空、无前导零、仅含数字、数值在 [0,255]、不超过 3 位
//
// Validate 不会 trim 输入，也不会 panic。返回的错误总是 [*ValidationError]。
func Validate(raw string) (Address, error) {
	if strings.TrimSpace(raw) == "" {
		return Address{}, &ValidationError{Reason: ReasonBlank, Index: NoIndex}
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 4 {
		return Address{}, &ValidationError{
			Reason: ReasonWrongOctetCount,
			Index:  NoIndex,
			Count:  len(segments),
		}
	}

	var addr Address
	for i, seg := range segments {
		o, err := parseOctet(i, seg)
		if err != nil {
			return Address{}, err
		}
		addr.octets[i] = o
	}
	return addr, nil
}

// MustValidate 与 Validate 相同，但失败时 panic。仅用于常量输入。
func MustValidate(raw string) Address {
	a, err := Validate(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// parseOctet 对单个段执行 a~e 检查。
func parseOctet(i int, seg string) (Octet, error) {
	if seg == "" {
		return Octet{}, &ValidationError{Reason: ReasonEmptyOctet, Index: i}
	}
	if len(seg) > 1 && seg[0] == '0' {
		return Octet{}, &ValidationError{Reason: ReasonLeadingZero, Index: i, Segment: seg}
	}
	if !isDecimal(seg) {
		return Octet{}, &ValidationError{Reason: ReasonNotDecimal, Index: i, Segment: seg}
	}

	// 已确认全部为 ASCII 数字，ParseUint 只可能因溢出失败，此时饱和到最大值。
	v, err := strconv.ParseUint(seg, 10, 64)
	if err != nil {
		v = math.MaxUint64
	}
	if v > 255 {
		return Octet{}, &ValidationError{Reason: ReasonOutOfRange, Index: i, Segment: seg, Value: v}
	}

	// 排在范围检查之后：无前导零的 4 位以上数字必然 > 255，
	// 此分支只为保持检查顺序，正常输入不会到达。
	if len(seg) > 3 {
		return Octet{}, &ValidationError{Reason: ReasonTooLong, Index: i, Segment: seg}
	}
	return Octet{Value: uint8(v), Text: seg}, nil
}

// isDecimal 报告 s 是否只包含 '0'~'9'。
func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
