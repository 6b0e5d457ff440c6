package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TLI"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Content  ContentConfig  `mapstructure:"content"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据库配置，driver 为 postgres 或 sqlite
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite 文件路径
}

// ChainConfig 单链配置
type ChainConfig struct {
	ChainType     string                    `mapstructure:"chain_type"`    // 链类型 (ethereum, polygon, etc.)
	ChainId       int64                     `mapstructure:"chain_id"`      // 链ID
	RpcUrl        string                    `mapstructure:"rpc_url"`       // RPC节点URL
	Confirmations int64                     `mapstructure:"confirmations"` // 确认区块数
	BatchSize     int64                     `mapstructure:"batch_size"`    // 每批获取日志的区块数
	PollInterval  int                       `mapstructure:"poll_interval"` // 轮询间隔（秒）
	Contracts     map[string]ContractConfig `mapstructure:"contracts"`     // 该链上的合约配置
}

// ContractConfig 单个合约配置
type ContractConfig struct {
	Address  string `mapstructure:"address"`   // 合约地址
	ABIPath  string `mapstructure:"abi_path"`  // ABI文件路径，为空时使用内置ABI
	Enabled  bool   `mapstructure:"enabled"`   // 是否启用此合约
	BlockNum int64  `mapstructure:"block_num"` // 合约部署区块号
}

// ContentConfig 链下内容抓取配置
type ContentConfig struct {
	Gateway     string  `mapstructure:"gateway"`      // IPFS 网关地址
	Timeout     int     `mapstructure:"timeout"`      // 单次请求超时（秒）
	BatchSize   int     `mapstructure:"batch_size"`   // 每次任务处理的最大数量
	Workers     int     `mapstructure:"workers"`      // 并发抓取协程数
	MaxAttempts int     `mapstructure:"max_attempts"` // 最大重试次数
	RateLimit   float64 `mapstructure:"rate_limit"`   // 每秒请求数上限，0 表示不限
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// PollDuration 轮询间隔
func (c ChainConfig) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// TimeoutDuration 抓取超时
func (c ContentConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ApplyDefaults 设置默认值和环境变量绑定
func ApplyDefaults(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tlindexer")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "talentlayer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "tlindexer.db")
	v.SetDefault("chain.chain_type", "polygon")
	v.SetDefault("chain.chain_id", 137)
	v.SetDefault("chain.confirmations", 12)
	v.SetDefault("chain.batch_size", 500)
	v.SetDefault("chain.poll_interval", 30)
	v.SetDefault("content.gateway", "https://ipfs.io/ipfs")
	v.SetDefault("content.timeout", 15)
	v.SetDefault("content.batch_size", 50)
	v.SetDefault("content.workers", 8)
	v.SetDefault("content.max_attempts", 5)
	v.SetDefault("content.rate_limit", 5)
	v.SetDefault("task.interval", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// Load 读取配置文件并解析为 Config，配置文件缺失时只使用默认值和环境变量
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Chain.BatchSize <= 0 {
		return errors.New("chain.batch_size must be positive")
	}
	if c.Chain.PollInterval <= 0 {
		return errors.New("chain.poll_interval must be positive")
	}
	if c.Chain.Confirmations < 0 {
		return errors.New("chain.confirmations must not be negative")
	}
	if c.Content.Workers <= 0 {
		return errors.New("content.workers must be positive")
	}
	if c.Content.MaxAttempts <= 0 {
		return errors.New("content.max_attempts must be positive")
	}
	return nil
}
