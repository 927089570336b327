package core

// IIDGenerator ID生成器基础接口
type IIDGenerator interface {
	// Next 生成下一个唯一ID（线程安全）
	Next() (int64, error)
}

// IBatchGenerator 批量ID生成接口
type IBatchGenerator interface {
	IIDGenerator

	// NextBatch 批量生成指定数量的ID（线程安全）
	NextBatch(n int) ([]int64, error)
}

// IConfigurableGenerator 可查询身份的生成器接口
type IConfigurableGenerator interface {
	// WorkerID 工作机器ID（0-31）
	WorkerID() int64

	// DataCenterID 数据中心ID（0-7）
	DataCenterID() int64
}

// IMonitorableGenerator 可监控的生成器接口
type IMonitorableGenerator interface {
	// Metrics 获取监控指标快照
	Metrics() map[string]uint64

	// ResetMetrics 重置监控指标
	ResetMetrics()
}

// IGenerator 完整功能的生成器接口
type IGenerator interface {
	IBatchGenerator
	IConfigurableGenerator
	IMonitorableGenerator
}

// IIDParser ID解析器接口
type IIDParser interface {
	// Parse 验证并解析ID，提取完整的元信息
	Parse(id int64) (*IDInfo, error)

	// ExtractTimestamp 提取时间戳（Unix毫秒）
	ExtractTimestamp(id int64) int64

	// ExtractDataCenterID 提取数据中心ID
	ExtractDataCenterID(id int64) int64

	// ExtractWorkerID 提取工作机器ID
	ExtractWorkerID(id int64) int64

	// ExtractSequence 提取序列号
	ExtractSequence(id int64) int64
}

// IIDValidator ID验证器接口
type IIDValidator interface {
	// Validate 验证ID的有效性
	Validate(id int64) error

	// ValidateBatch 批量验证ID
	ValidateBatch(ids []int64) error
}
