package xipv4

import "strconv"

// Class 是传统有类地址划分中的地址类别。
type Class uint8

const (
	// ClassUnknown 表示首段不落在任何类别范围内（0 和 127）。
	ClassUnknown Class = iota
	// ClassA 首段 1~126。
	ClassA
	// ClassB 首段 128~191。
	ClassB
	// ClassC 首段 192~223。
	ClassC
	// ClassD 首段 224~239，多播。
	ClassD
	// ClassE 首段 240~255，实验保留。
	ClassE
)

// 不适用标记，用于 D/E 类和未知类别的网络号/主机号。
const (
	NotApplicableMulticast = "N/A (Multicast/Experimental)"
	NotApplicableUnknown   = "Unknown"
)

// String 返回 "A"~"E" 或 "Unknown"。
func (c Class) String() string {
	switch c {
	case ClassA:
		return "A"
	case ClassB:
		return "B"
	case ClassC:
		return "C"
	case ClassD:
		return "D"
	case ClassE:
		return "E"
	case ClassUnknown:
		return "Unknown"
	default:
		return "Class(" + strconv.Itoa(int(c)) + ")"
	}
}

// MarshalText 实现 encoding.TextMarshaler，JSON/YAML 输出类别标签而非数字。
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsKnown 报告 c 是否为 A~E 之一。
func (c Class) IsKnown() bool {
	return c >= ClassA && c <= ClassE
}

// IsUnicast 报告 c 是否为可划分网络号/主机号的 A/B/C 类。
func (c Class) IsUnicast() bool {
	return c >= ClassA && c <= ClassC
}

// classRanges 首段闭区间到类别的映射。0 和 127 有意不在其中。
var classRanges = [...]struct {
	lo, hi uint8
	class  Class
}{
	{1, 126, ClassA},
	{128, 191, ClassB},
	{192, 223, ClassC},
	{224, 239, ClassD},
	{240, 255, ClassE},
}

// Classify 根据首段数值返回地址类别。
//
// 0（本网络）和 127（环回）不做特殊处理，返回 [ClassUnknown]。
func Classify(firstOctet uint8) Class {
	for _, r := range classRanges {
		if firstOctet >= r.lo && firstOctet <= r.hi {
			return r.class
		}
	}
	return ClassUnknown
}

// NetworkAndHost 按类别默认掩码拆分网络号和主机号。
//
//   - A: "o0.0.0.0" / "o1.o2.o3"
//   - B: "o0.o1.0.0" / "o2.o3"
//   - C: "o0.o1.o2.0" / "o3"
//   - D/E: 两者均为 [NotApplicableMulticast]
//   - 其他: 两者均为 [NotApplicableUnknown]
func NetworkAndHost(addr Address, class Class) (networkID, hostID string) {
	o := addr.octets
	switch class {
	case ClassA:
		return o[0].Text + ".0.0.0", o[1].Text + "." + o[2].Text + "." + o[3].Text
	case ClassB:
		return o[0].Text + "." + o[1].Text + ".0.0", o[2].Text + "." + o[3].Text
	case ClassC:
		return o[0].Text + "." + o[1].Text + "." + o[2].Text + ".0", o[3].Text
	case ClassD, ClassE:
		return NotApplicableMulticast, NotApplicableMulticast
	default:
		return NotApplicableUnknown, NotApplicableUnknown
	}
}
