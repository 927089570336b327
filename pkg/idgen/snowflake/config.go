package snowflake

import (
	"fmt"

	"katydid-common-idgen/pkg/idgen/core"
)

// ============================================================================
// Snowflake 配置定义
// ============================================================================

// Config Snowflake生成器配置
type Config struct {
	// WorkerID 工作机器ID
	// 范围：0-31（5位二进制）
	// 用途：标识同一数据中心内的不同节点，需由调用方保证部署内唯一
	WorkerID int64

	// DataCenterID 数据中心ID
	// 范围：0-7（3位二进制）
	// 用途：标识不同的数据中心，避免跨数据中心ID冲突
	DataCenterID int64

	// Sequence 初始序列号
	// 范围：0-255（8位二进制），超出范围会破坏位布局，因此直接拒绝
	// 默认值：0
	Sequence int64

	// EnableMetrics 是否启用性能监控
	// 默认值：false
	EnableMetrics bool

	// Clock 时钟来源，nil时使用SystemClock
	Clock Clock
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.WorkerID < 0 || c.WorkerID > MaxWorkerID {
		return fmt.Errorf("%w: got %d, valid range [0, %d]",
			core.ErrInvalidWorkerID, c.WorkerID, MaxWorkerID)
	}

	if c.DataCenterID < 0 || c.DataCenterID > MaxDataCenterID {
		return fmt.Errorf("%w: got %d, valid range [0, %d]",
			core.ErrInvalidDataCenterID, c.DataCenterID, MaxDataCenterID)
	}

	if c.Sequence < 0 || c.Sequence > MaxSequence {
		return fmt.Errorf("%w: got %d, valid range [0, %d]",
			core.ErrInvalidSequence, c.Sequence, MaxSequence)
	}

	return nil
}

// SetDefaults 设置配置的默认值
func (c *Config) SetDefaults() {
	if c.Clock == nil {
		c.Clock = SystemClock
	}
}

// Clone 克隆配置对象
func (c *Config) Clone() *Config {
	return &Config{
		WorkerID:      c.WorkerID,
		DataCenterID:  c.DataCenterID,
		Sequence:      c.Sequence,
		EnableMetrics: c.EnableMetrics,
		Clock:         c.Clock,
	}
}

// Option 生成器可选配置
type Option func(*Config)

// WithSequence 设置初始序列号
func WithSequence(sequence int64) Option {
	return func(c *Config) {
		c.Sequence = sequence
	}
}

// WithClock 注入时钟
func WithClock(clock Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithMetrics 开启或关闭监控
func WithMetrics(enable bool) Option {
	return func(c *Config) {
		c.EnableMetrics = enable
	}
}
