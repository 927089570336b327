package snowflake

import (
	"fmt"
	"time"

	"katydid-common-idgen/pkg/idgen/core"
)

// Compose 按位布局组装ID
// timestamp为Unix毫秒时间戳（非Epoch偏移），其余字段按各自位宽截断
func Compose(timestamp, dataCenterID, workerID, sequence int64) int64 {
	return ((timestamp - Epoch) << TimestampLeftShift) |
		((dataCenterID & MaxDataCenterID) << DataCenterIDShift) |
		((workerID & MaxWorkerID) << WorkerIDShift) |
		(sequence & SequenceMask)
}

// Decompose 按位布局拆解ID，不做有效性验证
func Decompose(id int64) core.IDInfo {
	return core.IDInfo{
		ID:           id,
		Timestamp:    (id >> TimestampLeftShift) + Epoch,
		DataCenterID: (id >> DataCenterIDShift) & MaxDataCenterID,
		WorkerID:     (id >> WorkerIDShift) & MaxWorkerID,
		Sequence:     id & SequenceMask,
	}
}

// Parser Snowflake ID解析器
type Parser struct {
	validator core.IIDValidator // 解析前验证ID有效性
}

// NewParser 创建新的解析器实例
func NewParser() *Parser {
	return &Parser{
		validator: NewValidator(),
	}
}

// Parse 验证并解析Snowflake ID
func (p *Parser) Parse(id int64) (*core.IDInfo, error) {
	if err := p.validator.Validate(id); err != nil {
		return nil, err
	}
	info := Decompose(id)
	return &info, nil
}

// ExtractTimestamp 提取时间戳（Unix毫秒），无效ID返回0
func (p *Parser) ExtractTimestamp(id int64) int64 {
	if id <= 0 {
		return 0
	}
	return (id >> TimestampLeftShift) + Epoch
}

// ExtractTime 提取时间戳并转换为time.Time，无效ID返回零值时间
func (p *Parser) ExtractTime(id int64) time.Time {
	timestamp := p.ExtractTimestamp(id)
	if timestamp <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(timestamp)
}

// ExtractDataCenterID 提取数据中心ID，无效ID返回-1
func (p *Parser) ExtractDataCenterID(id int64) int64 {
	if id <= 0 {
		return -1
	}
	return (id >> DataCenterIDShift) & MaxDataCenterID
}

// ExtractWorkerID 提取工作机器ID，无效ID返回-1
func (p *Parser) ExtractWorkerID(id int64) int64 {
	if id <= 0 {
		return -1
	}
	return (id >> WorkerIDShift) & MaxWorkerID
}

// ExtractSequence 提取序列号，无效ID返回-1
func (p *Parser) ExtractSequence(id int64) int64 {
	if id <= 0 {
		return -1
	}
	return id & SequenceMask
}

// ParseID 使用默认解析器解析ID
func ParseID(id int64) (*core.IDInfo, error) {
	info, err := NewParser().Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse snowflake id %d: %w", id, err)
	}
	return info, nil
}

var _ core.IIDParser = (*Parser)(nil)
