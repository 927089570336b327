package snowflake

import (
	"fmt"
	"sync"
	"time"

	"katydid-common-idgen/pkg/idgen/core"
)

// Generator Snowflake算法的ID生成器实现
// 说明：同一(workerID, dataCenterID)在整个部署内只能存在一个活跃实例，否则可能产生重复ID
type Generator struct {
	// ========== 核心状态 ==========
	lastTimestamp int64 // 上次生成ID的时间戳（毫秒），-1表示尚未生成过
	workerID      int64 // 工作机器ID（0-31）
	dataCenterID  int64 // 数据中心ID（0-7）
	sequence      int64 // 当前毫秒内的序列号（0-255）

	// ========== 依赖 ==========
	clock Clock // 时钟来源

	// ========== 性能优化 ==========
	precomputedPart int64 // 预计算的ID部分（dataCenterID和workerID）

	// ========== 监控 ==========
	metrics *Metrics // 性能监控指标（可选，nil时不收集）

	// ========== 并发控制 ==========
	mu sync.Mutex // 互斥锁，整个生成过程（包括等待下一毫秒）都在锁内
}

// New 创建一个新的Snowflake ID生成器
func New(workerID, dataCenterID int64, opts ...Option) (*Generator, error) {
	config := &Config{
		WorkerID:     workerID,
		DataCenterID: dataCenterID,
	}
	for _, opt := range opts {
		opt(config)
	}
	return NewWithConfig(config)
}

// NewWithConfig 使用配置创建Snowflake ID生成器
func NewWithConfig(config *Config) (*Generator, error) {
	if config == nil {
		return nil, core.ErrNilConfig
	}

	// 步骤1：验证配置
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 步骤2：使用副本设置默认值，不修改调用方的配置
	cfg := config.Clone()
	cfg.SetDefaults()

	// 步骤3：初始化监控（如果启用）
	var metrics *Metrics
	if cfg.EnableMetrics {
		metrics = NewMetrics()
	}

	return &Generator{
		lastTimestamp:   -1,
		workerID:        cfg.WorkerID,
		dataCenterID:    cfg.DataCenterID,
		sequence:        cfg.Sequence,
		clock:           cfg.Clock,
		precomputedPart: (cfg.DataCenterID << DataCenterIDShift) | (cfg.WorkerID << WorkerIDShift),
		metrics:         metrics,
	}, nil
}

// Next 生成下一个唯一ID（线程安全）
// 时钟回拨时返回core.ErrClockMovedBackward，内部状态保持不变
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nextUnsafe()
}

// NextBatch 批量生成ID（线程安全，整个批次只加一次锁）
// 遇到时钟回拨时返回已生成的ID和错误
func (g *Generator) NextBatch(n int) ([]int64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d",
			core.ErrInvalidBatchSize, n)
	}
	if n > maxBatchSize {
		return nil, fmt.Errorf("%w: batch size too large (max %d), got %d",
			core.ErrInvalidBatchSize, maxBatchSize, n)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]int64, 0, n)
	for len(ids) < n {
		id, err := g.nextUnsafe()
		if err != nil {
			return ids, fmt.Errorf("%w (generated %d/%d IDs)", err, len(ids), n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// WorkerID 获取工作机器ID
func (g *Generator) WorkerID() int64 {
	return g.workerID
}

// DataCenterID 获取数据中心ID
func (g *Generator) DataCenterID() int64 {
	return g.dataCenterID
}

// Metrics 获取性能监控指标
func (g *Generator) Metrics() map[string]uint64 {
	return g.metrics.ToMap()
}

// MetricsSnapshot 获取计数快照，未开启监控时返回零值
func (g *Generator) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// MetricsEnabled 是否开启了监控
func (g *Generator) MetricsEnabled() bool {
	return g.metrics != nil
}

// ResetMetrics 重置性能监控指标
func (g *Generator) ResetMetrics() {
	g.metrics.Reset()
}

// state 返回(lastTimestamp, sequence)，供测试观察内部状态
func (g *Generator) state() (int64, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastTimestamp, g.sequence
}

// nextUnsafe 不加锁版本的ID生成方法
// 说明：调用者必须已持有锁
func (g *Generator) nextUnsafe() (int64, error) {
	// 步骤1：获取当前时间戳（毫秒）
	timestamp := g.clock.NowMillis()

	// 步骤2：时钟回拨直接拒绝，不修改任何状态
	if timestamp < g.lastTimestamp {
		if g.metrics != nil {
			g.metrics.ClockBackward.Add(1)
		}
		return 0, fmt.Errorf("%w: last timestamp %d, current %d, drift %d ms",
			core.ErrClockMovedBackward, g.lastTimestamp, timestamp, g.lastTimestamp-timestamp)
	}

	// 步骤3：序列号管理
	var sequence int64
	if timestamp == g.lastTimestamp {
		// 同一毫秒内递增，溢出时通过掩码回绕到0
		sequence = (g.sequence + 1) & SequenceMask
		if sequence == 0 {
			// 当前毫秒的序列号已耗尽，持锁等待下一毫秒
			timestamp = g.waitNextMillis(g.lastTimestamp)
		}
	}

	// 步骤4：更新状态
	g.sequence = sequence
	g.lastTimestamp = timestamp

	if g.metrics != nil {
		g.metrics.IDCount.Add(1)
	}

	// 步骤5：组装ID
	// ID结构：时间戳 | 数据中心ID(3位) | 工作机器ID(5位) | 序列号(8位)
	return ((timestamp - Epoch) << TimestampLeftShift) | g.precomputedPart | sequence, nil
}

// waitNextMillis 自旋等待直到时钟越过lastTimestamp
// 说明：没有超时，时钟停滞时会一直等待
func (g *Generator) waitNextMillis(lastTimestamp int64) int64 {
	start := time.Now()

	timestamp := g.clock.NowMillis()
	for timestamp <= lastTimestamp {
		timestamp = g.clock.NowMillis()
	}

	if g.metrics != nil {
		g.metrics.recordWait(time.Since(start))
	}
	return timestamp
}

var _ core.IGenerator = (*Generator)(nil)
