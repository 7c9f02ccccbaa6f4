// Package xreport 将 [xipv4.Result] 渲染为文本面板、JSON 或 YAML。
//
// 这是纯展示层，不含任何校验或分类逻辑：
//   - 有效地址：地址、类别、说明、范围、默认掩码、网络号、主机号，
//     仅 A/B/C 类附带网络位数、主机位数和最大主机数
//   - 无效地址：失败原因和静态格式说明
//   - 空输入：独立的错误面板 "Please enter an IP address"
//
// JSON/YAML 输出使用 [Report] 结构，字段名为 snake_case。
package xreport
