package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

// Config 项目配置结构体
type Config struct {
	Search SearchConfig `yaml:"search"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	DB     DBConfig     `yaml:"db"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Engines      []string          `yaml:"engines" env:"SEARCH_ENGINES" env-separator:"," env-default:"google,bing,yahoo"`
	NumResults   int               `yaml:"num_results" env:"SEARCH_NUM_RESULTS" env-default:"50"`
	Timeout      time.Duration     `yaml:"timeout" env:"SEARCH_TIMEOUT" env-default:"10s"`
	UserAgent    string            `yaml:"user_agent" env:"SEARCH_USER_AGENT"` // 为空时使用内置的浏览器 UA
	MaxPageBytes int64             `yaml:"max_page_bytes" env:"SEARCH_MAX_PAGE_BYTES" env-default:"10485760"`
	BaseURLs     map[string]string `yaml:"base_urls"` // 按引擎覆盖请求地址，主要用于测试和自建镜像
}

// OutputConfig 结果文件配置
type OutputConfig struct {
	Dir    string `yaml:"dir" env:"OUTPUT_DIR" env-default:"."`
	Header string `yaml:"header" env:"OUTPUT_HEADER" env-default:"Search Results"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// DBConfig 数据库相关配置，Host 为空时不记录搜索历史
type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

// LoadConfig 加载配置：path 为空时只读取环境变量和默认值
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env config: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath 确定配置文件路径，优先级：命令行 > CONFIG_PATH 环境变量
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Search.Engines) == 0 {
		return fmt.Errorf("no search engines configured")
	}
	known := search.Names()
	for _, name := range c.Search.Engines {
		if !slices.Contains(known, name) {
			return fmt.Errorf("unknown search engine: %s", name)
		}
	}
	for name := range c.Search.BaseURLs {
		if !slices.Contains(known, name) {
			return fmt.Errorf("base url override for unknown search engine: %s", name)
		}
	}
	if c.Search.NumResults <= 0 {
		return fmt.Errorf("num_results must be positive, got %d", c.Search.NumResults)
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Search.Timeout)
	}
	if c.Output.Header == "" {
		return fmt.Errorf("output header must not be empty")
	}
	return nil
}

// Dump 以 YAML 输出当前生效的配置，密码会被隐藏
func (c *Config) Dump(w io.Writer) error {
	masked := *c
	if masked.DB.Password != "" {
		masked.DB.Password = "******"
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&masked); err != nil {
		return err
	}
	return enc.Close()
}
