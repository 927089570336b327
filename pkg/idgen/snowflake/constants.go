package snowflake

const (
	// Epoch 起始时间戳 (2010-11-04 01:42:54 UTC)
	Epoch int64 = 1288834974000 // 毫秒时间戳

	// 位数分配
	WorkerIDBits     = 5 // 工作机器ID位数
	DataCenterIDBits = 3 // 数据中心ID位数
	SequenceBits     = 8 // 序列号位数

	// 最大值计算(切记不是个数)
	MaxWorkerID     = -1 ^ (-1 << WorkerIDBits)     // 31 (2^5 - 1) [0, 31]
	MaxDataCenterID = -1 ^ (-1 << DataCenterIDBits) // 7 (2^3 - 1) [0, 7]
	MaxSequence     = -1 ^ (-1 << SequenceBits)     // 255 (2^8 - 1) [0, 255]

	// SequenceMask 序列号掩码，递增溢出时回绕到0
	SequenceMask = MaxSequence

	// 位移量
	WorkerIDShift      = SequenceBits                                   // 8
	DataCenterIDShift  = SequenceBits + WorkerIDBits                    // 13
	TimestampLeftShift = SequenceBits + WorkerIDBits + DataCenterIDBits // 16

	// 批量生成最大数量（支持跨毫秒生成）
	maxBatchSize = 100_000

	// 允许的未来时间容差（毫秒）
	maxFutureTimeTolerance = 60 * 1000 // 1分钟
)
