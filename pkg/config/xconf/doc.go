// Package xconf 加载 ipclassctl 配置，基于 koanf。
//
// # 格式
//
// 支持 YAML（.yaml/.yml）与 JSON（.json），Load 按扩展名检测，
// LoadBytes 需显式指定格式。
//
// # 配置项
//
//	log:
//	  level: info          # debug | info | warn | error
//	  format: text         # text | json
//	  file: ""             # 为空写 stderr，否则按 max_size_mb 等参数轮转
//	  max_size_mb: 100
//	  max_backups: 3
//	  max_age_days: 7
//	  compress: false
//	output:
//	  format: text         # text | json | yaml
//	batch:
//	  workers: 4
//	  cache_size: 1024     # 0 关闭缓存
//	presets:
//	  - 192.168.1.1
//	  - 10.0.0.1
//
// 缺省的键取 Defaults() 的值。加载与重载都会执行 Settings.Validate，
// 校验失败的重载不会替换当前快照。
//
// # 热更新
//
// Watch 基于 fsnotify 监视配置文件所在目录，防抖后调用 Reload 并回调。
package xconf
