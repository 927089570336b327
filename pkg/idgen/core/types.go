package core

// IDInfo ID解析后的各组成部分
type IDInfo struct {
	ID           int64 `json:"id,string"`      // 原始ID值
	Timestamp    int64 `json:"timestamp"`      // 时间戳（Unix毫秒）
	DataCenterID int64 `json:"data_center_id"` // 数据中心ID（0-7）
	WorkerID     int64 `json:"worker_id"`      // 工作机器ID（0-31）
	Sequence     int64 `json:"sequence"`       // 序列号（0-255，同一毫秒内的序号）
}
