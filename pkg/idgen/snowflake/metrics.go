package snowflake

import (
	"sync/atomic"
	"time"
)

// Metrics 生成器运行计数，全部为原子操作，nil表示未开启
type Metrics struct {
	IDCount           atomic.Uint64 // 已生成ID总数
	SequenceExhausted atomic.Uint64 // 序列号耗尽（需等待下一毫秒）次数
	ClockBackward     atomic.Uint64 // 因时钟回拨被拒绝的次数
	WaitNs            atomic.Uint64 // 等待下一毫秒累计耗时（纳秒）
}

// MetricsSnapshot 某一时刻的计数快照
type MetricsSnapshot struct {
	IDCount           uint64
	SequenceExhausted uint64
	ClockBackward     uint64
	WaitTime          time.Duration
}

// NewMetrics 创建新的监控指标实例
func NewMetrics() *Metrics {
	return &Metrics{}
}

// recordWait 记录一次序列号耗尽及其等待耗时
func (m *Metrics) recordWait(d time.Duration) {
	m.SequenceExhausted.Add(1)
	m.WaitNs.Add(uint64(d.Nanoseconds()))
}

// Reset 重置所有监控指标
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.IDCount.Store(0)
	m.SequenceExhausted.Store(0)
	m.ClockBackward.Store(0)
	m.WaitNs.Store(0)
}

// Snapshot 读取当前计数，nil时返回零值
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		IDCount:           m.IDCount.Load(),
		SequenceExhausted: m.SequenceExhausted.Load(),
		ClockBackward:     m.ClockBackward.Load(),
		WaitTime:          time.Duration(m.WaitNs.Load()),
	}
}

// ToMap 转换为map格式
func (m *Metrics) ToMap() map[string]uint64 {
	if m == nil {
		return map[string]uint64{"metrics_enabled": 0}
	}

	s := m.Snapshot()
	var avgWait uint64
	if s.SequenceExhausted > 0 {
		avgWait = uint64(s.WaitTime.Nanoseconds()) / s.SequenceExhausted
	}
	return map[string]uint64{
		"metrics_enabled":    1,
		"id_count":           s.IDCount,
		"sequence_exhausted": s.SequenceExhausted,
		"clock_backward":     s.ClockBackward,
		"wait_time_ns":       uint64(s.WaitTime.Nanoseconds()),
		"avg_wait_time_ns":   avgWait,
	}
}
