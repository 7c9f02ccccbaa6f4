// Package xipv4 提供点分十进制 IPv4 地址的严格校验与传统有类（A~E）分类。
//
// 核心全部是纯函数，无状态、无 I/O，可并发调用。
//
// # 核心功能
//
//   - validate.go: [Validate] 严格解析，返回 [Address] 或 [*ValidationError]
//   - classify.go: [Classify] 首段分类，[NetworkAndHost] 按默认掩码拆分
//   - classinfo.go: [Info] 静态类别参考数据（掩码、范围、容量）
//   - analyze.go: [Analyze] 组合以上步骤，返回 [Result]
//
// # 快速示例
//
//	r := xipv4.Analyze("192.168.1.1")
//	fmt.Println(r.Class)      // C
//	fmt.Println(r.NetworkID)  // 192.168.1.0
//	fmt.Println(r.HostID)     // 1
//
//	r = xipv4.Analyze("192.168.01.1")
//	fmt.Println(errors.Is(r.Err, xipv4.ErrLeadingZero))  // true
//
// # 校验顺序
//
// 检查按固定顺序执行，首个失败即返回：段数、空段、前导零、非数字、
// 超出范围、超长。顺序决定了畸形输入得到哪条错误信息，例如 "2561"
// 报告超出范围而非超长。
//
// 前导零规则适用于所有以 '0' 开头的多位段，与数值无关："00"、"01" 均被拒绝，
// 单独的 "0" 合法。
//
// # 分类
//
// 首段 0 和 127 不属于任何类别，返回 [ClassUnknown]，不特殊处理为
// "本网络" 或 "环回"。D/E 类没有默认掩码，网络号和主机号为
// [NotApplicableMulticast]。
//
// # 错误处理
//
// 所有错误都是 [*ValidationError]，Unwrap 返回预定义错误：
//
//	_, err := xipv4.Validate("1.2.3")
//	if errors.Is(err, xipv4.ErrWrongOctetCount) {
//	    // 段数错误
//	}
//
//	var ve *xipv4.ValidationError
//	if errors.As(err, &ve) {
//	    fmt.Println(ve.Count)      // 3
//	    fmt.Println(ve.Message())  // 面向用户的解释
//	}
package xipv4
