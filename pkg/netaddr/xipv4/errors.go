package xipv4

import (
	"errors"
	"fmt"
	"strconv"
)

// 预定义错误变量，[ValidationError.Unwrap] 返回其中之一，支持 errors.Is 判断。
var (
	// ErrBlankInput 表示输入为空或仅含空白字符。
	// 这是前置检查，不属于六类八位段错误。
	ErrBlankInput = errors.New("xipv4: blank input")

	// ErrWrongOctetCount 表示按 "." 拆分后段数不等于 4。
	ErrWrongOctetCount = errors.New("xipv4: wrong octet count")

	// ErrEmptyOctet 表示某个八位段为空字符串。
	ErrEmptyOctet = errors.New("xipv4: empty octet")

	// ErrLeadingZero 表示多位八位段以 '0' 开头。
	ErrLeadingZero = errors.New("xipv4: leading zero")

	// ErrNotDecimal 表示八位段包含 0-9 以外的字符。
	ErrNotDecimal = errors.New("xipv4: not a decimal number")

	// ErrOutOfRange 表示八位段数值超出 [0,255]。
	ErrOutOfRange = errors.New("xipv4: octet out of range")

	// ErrTooLong 表示八位段超过 3 位数字。
	ErrTooLong = errors.New("xipv4: octet too long")
)

// Reason 是校验失败原因的分类。
type Reason uint8

const (
	// ReasonNone 表示没有错误，仅作为零值存在。
	ReasonNone Reason = iota
	// ReasonBlank 对应 [ErrBlankInput]。
	ReasonBlank
	// ReasonWrongOctetCount 对应 [ErrWrongOctetCount]。
	ReasonWrongOctetCount
	// ReasonEmptyOctet 对应 [ErrEmptyOctet]。
	ReasonEmptyOctet
	// ReasonLeadingZero 对应 [ErrLeadingZero]。
	ReasonLeadingZero
	// ReasonNotDecimal 对应 [ErrNotDecimal]。
	ReasonNotDecimal
	// ReasonOutOfRange 对应 [ErrOutOfRange]。
	ReasonOutOfRange
	// ReasonTooLong 对应 [ErrTooLong]。
	ReasonTooLong
)

// String 返回机器可读的原因标签，用于日志和指标属性。
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBlank:
		return "blank"
	case ReasonWrongOctetCount:
		return "wrong_octet_count"
	case ReasonEmptyOctet:
		return "empty_octet"
	case ReasonLeadingZero:
		return "leading_zero"
	case ReasonNotDecimal:
		return "not_decimal"
	case ReasonOutOfRange:
		return "out_of_range"
	case ReasonTooLong:
		return "too_long"
	default:
		return "Reason(" + strconv.Itoa(int(r)) + ")"
	}
}

// sentinel 返回原因对应的预定义错误。
func (r Reason) sentinel() error {
	switch r {
	case ReasonBlank:
		return ErrBlankInput
	case ReasonWrongOctetCount:
		return ErrWrongOctetCount
	case ReasonEmptyOctet:
		return ErrEmptyOctet
	case ReasonLeadingZero:
		return ErrLeadingZero
	case ReasonNotDecimal:
		return ErrNotDecimal
	case ReasonOutOfRange:
		return ErrOutOfRange
	case ReasonTooLong:
		return ErrTooLong
	default:
		return nil
	}
}

// NoIndex 表示错误不关联具体八位段（段数错误、空输入）。
const NoIndex = -1

// ValidationError 描述一次校验失败。
//
// 字段按原因有选择地填充：
//   - ReasonWrongOctetCount: Count
//   - ReasonEmptyOctet: Index
//   - ReasonLeadingZero / ReasonNotDecimal / ReasonTooLong: Index, Segment
//   - ReasonOutOfRange: Index, Segment, Value
//
// 未使用的 Index 为 [NoIndex]。
type ValidationError struct {
	Reason  Reason
	Index   int
	Segment string
	Count   int
	Value   uint64
}

// Error 实现 error 接口。
func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonWrongOctetCount:
		return fmt.Sprintf("%v: got %d", e.Reason.sentinel(), e.Count)
	case ReasonEmptyOctet:
		return fmt.Sprintf("%v: index %d", e.Reason.sentinel(), e.Index)
	case ReasonOutOfRange:
		return fmt.Sprintf("%v: index %d: %q (%d)", e.Reason.sentinel(), e.Index, e.Segment, e.Value)
	case ReasonLeadingZero, ReasonNotDecimal, ReasonTooLong:
		return fmt.Sprintf("%v: index %d: %q", e.Reason.sentinel(), e.Index, e.Segment)
	case ReasonBlank:
		return ErrBlankInput.Error()
	default:
		return "xipv4: invalid address"
	}
}

// Unwrap 返回对应的预定义错误，使 errors.Is(err, ErrLeadingZero) 等判断成立。
func (e *ValidationError) Unwrap() error {
	return e.Reason.sentinel()
}

// Message 返回面向用户的解释文本。八位段按 1 起编号。
func (e *ValidationError) Message() string {
	n := e.Index + 1
	switch e.Reason {
	case ReasonBlank:
		return "Please enter an IP address"
	case ReasonWrongOctetCount:
		return fmt.Sprintf("An IPv4 address must consist of exactly four octets (numbers separated by dots). This address has %d octets.", e.Count)
	case ReasonEmptyOctet:
		return fmt.Sprintf("Octet %d is empty. Each octet must contain a number.", n)
	case ReasonLeadingZero:
		return fmt.Sprintf("Octet %d (%s) has a leading zero. Leading zeros are not allowed in standard dotted-decimal notation as they can be interpreted as octal numbers.", n, e.Segment)
	case ReasonNotDecimal:
		return fmt.Sprintf("Octet %d (%s) is not a valid decimal number. Each octet must contain only digits 0-9.", n, e.Segment)
	case ReasonOutOfRange:
		return fmt.Sprintf("Octet %d (%s) is out of range. Each octet must be between 0 and 255, inclusive.", n, e.Segment)
	case ReasonTooLong:
		return fmt.Sprintf("Octet %d (%s) is too long. Each octet should not exceed 3 digits.", n, e.Segment)
	default:
		return e.Error()
	}
}

// ReasonOf 提取 err 的失败原因。nil 返回 [ReasonNone]；
// 非 [*ValidationError] 的错误同样返回 [ReasonNone]。
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ReasonNone
}

// MessageOf 返回 err 面向用户的解释文本。
// 非 [*ValidationError] 的错误返回 err.Error()，nil 返回空字符串。
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message()
	}
	return err.Error()
}
