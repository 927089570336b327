package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"katydid-common-idgen/internal/logger"
)

// EnvPrefix 环境变量前缀，例如 SNOWFLAKE_GENERATOR_WORKER_ID
const EnvPrefix = "SNOWFLAKE"

// Config 服务配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Logger    logger.Config   `mapstructure:"logger"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	MaxBatchSize    int           `mapstructure:"max_batch_size" validate:"min=1,max=100000"`
}

// GeneratorConfig 默认生成器身份，请求未指定时使用
// 说明：WorkerID与DataCenterID的分配由部署方负责，必须保证同时运行的节点互不相同
type GeneratorConfig struct {
	WorkerID      int64 `mapstructure:"worker_id" validate:"min=0,max=31"`
	DataCenterID  int64 `mapstructure:"data_center_id" validate:"min=0,max=7"`
	EnableMetrics bool  `mapstructure:"enable_metrics"`

	// AllowedIdentities 请求可以指定的其他身份，为空时不限制
	AllowedIdentities []Identity `mapstructure:"allowed_identities" validate:"dive"`
}

// Identity 一对(worker, datacenter)身份
type Identity struct {
	WorkerID     int64 `mapstructure:"worker_id" validate:"min=0,max=31"`
	DataCenterID int64 `mapstructure:"data_center_id" validate:"min=0,max=7"`
}

// Allows 判断请求能否使用该身份，默认身份始终允许
func (g GeneratorConfig) Allows(workerID, dataCenterID int64) bool {
	if len(g.AllowedIdentities) == 0 {
		return true
	}
	if workerID == g.WorkerID && dataCenterID == g.DataCenterID {
		return true
	}
	for _, id := range g.AllowedIdentities {
		if id.WorkerID == workerID && id.DataCenterID == dataCenterID {
			return true
		}
	}
	return false
}

var validate = validator.New()

// SetDefaults 写入默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_batch_size", 10000)
	v.SetDefault("generator.worker_id", 0)
	v.SetDefault("generator.data_center_id", 0)
	v.SetDefault("generator.enable_metrics", true)
	v.SetDefault("logger.enable_write_to_file", false)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 7)
}

// NewViper 创建viper实例，cfgFile为空时只使用默认值与环境变量
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(cfgFile) == "" {
		return v, nil
	}
	if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// New 从viper解析并验证配置
func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

// Load 读取配置文件（可选）并返回验证后的配置
func Load(cfgFile string) (*Config, error) {
	v, err := NewViper(cfgFile)
	if err != nil {
		return nil, err
	}
	return New(v)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config: %w", err)
	}
	return nil
}
