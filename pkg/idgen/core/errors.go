package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 构造参数非法（调用方可修正，仅在构造阶段返回）
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidWorkerID 工作机器ID超出有效范围
	ErrInvalidWorkerID = fmt.Errorf("%w: worker id must be between 0 and 31", ErrInvalidArgument)

	// ErrInvalidDataCenterID 数据中心ID超出有效范围
	ErrInvalidDataCenterID = fmt.Errorf("%w: data center id must be between 0 and 7", ErrInvalidArgument)

	// ErrInvalidSequence 初始序列号超出有效范围
	ErrInvalidSequence = fmt.Errorf("%w: sequence must be between 0 and 255", ErrInvalidArgument)

	// ErrInvalidBatchSize 批量生成数量无效
	ErrInvalidBatchSize = fmt.Errorf("%w: invalid batch size", ErrInvalidArgument)

	// ErrNilConfig 配置为nil
	ErrNilConfig = fmt.Errorf("%w: config cannot be nil", ErrInvalidArgument)

	// ErrClockMovedBackward 检测到时钟回拨，拒绝生成ID
	ErrClockMovedBackward = errors.New("clock moved backward: refusing to generate id")

	// ErrInvalidSnowflakeID 无效的Snowflake ID
	ErrInvalidSnowflakeID = errors.New("invalid snowflake id")

	// ErrGeneratorNotFound 生成器未找到
	ErrGeneratorNotFound = errors.New("generator not found")
)
