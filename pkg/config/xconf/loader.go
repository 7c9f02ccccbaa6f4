package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	keyDelim = "."
	tagName  = "koanf"
)

// Config 持有已加载的配置及其来源，可并发读取和重载。
type Config struct {
	mu       sync.RWMutex
	k        *koanf.Koanf
	settings Settings
	path     string
	format   Format
}

// Load 从文件加载配置，根据扩展名（.yaml/.yml/.json）检测格式。
// 配置文件中缺省的键取 Defaults() 的值，加载后执行 Validate。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, s, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return &Config{k: k, settings: s, path: path, format: format}, nil
}

// LoadBytes 从字节数据加载配置，需显式指定格式。
// 空数据得到默认配置。
func LoadBytes(data []byte, format Format) (*Config, error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	k, s, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return &Config{k: k, settings: s, format: format}, nil
}

// Settings 返回当前配置快照。Presets 为独立副本。
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.settings
	s.Presets = append([]string(nil), c.settings.Presets...)
	return s
}

// Client 返回底层的 koanf 实例。
func (c *Config) Client() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

// Path 返回配置文件路径，从字节数据加载时为空。
func (c *Config) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *Config) Format() Format {
	return c.format
}

// Reload 重新读取配置文件。
// 新内容解析或校验失败时保留旧快照并返回错误。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, s, err := parse(data, c.format)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.k = k
	c.settings = s
	c.mu.Unlock()
	return nil
}

// DetectFormat 根据文件扩展名检测配置格式。
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func (f Format) valid() bool {
	return f == FormatYAML || f == FormatJSON
}

func (f Format) parser() koanf.Parser {
	if f == FormatJSON {
		return json.Parser()
	}
	return yaml.Parser()
}

// parse 加载数据并解码到以默认值为底的 Settings。
func parse(data []byte, format Format) (*koanf.Koanf, Settings, error) {
	k := koanf.New(keyDelim)
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), format.parser()); err != nil {
			return nil, Settings{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	s := Defaults()
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: tagName}); err != nil {
		return nil, Settings{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	if err := s.Validate(); err != nil {
		return nil, Settings{}, err
	}
	return k, s, nil
}
