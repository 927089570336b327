package snowflake

import (
	"fmt"
	"time"

	"katydid-common-idgen/pkg/idgen/core"
)

// Validator Snowflake ID验证器，零值可直接使用
type Validator struct{}

// NewValidator 创建新的验证器实例
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID 全局验证函数
func ValidateID(id int64) error {
	return NewValidator().Validate(id)
}

// Validate 验证Snowflake ID的有效性
func (v *Validator) Validate(id int64) error {
	// ID必须为正整数
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d",
			core.ErrInvalidSnowflakeID, id)
	}

	// 时间戳不能太超前，容忍一定的节点间时钟偏差
	timestamp := (id >> TimestampLeftShift) + Epoch
	now := time.Now().UnixMilli()
	if timestamp > now+maxFutureTimeTolerance {
		return fmt.Errorf("%w: timestamp %d is too far in the future (current: %d, max tolerance: %d ms)",
			core.ErrInvalidSnowflakeID, timestamp, now, maxFutureTimeTolerance)
	}

	return nil
}

// ValidateBatch 批量验证ID，遇到第一个错误立即返回
func (v *Validator) ValidateBatch(ids []int64) error {
	if ids == nil {
		return fmt.Errorf("%w: ids slice cannot be nil", core.ErrInvalidSnowflakeID)
	}

	for i, id := range ids {
		if err := v.Validate(id); err != nil {
			return fmt.Errorf("invalid ID at index %d: %w", i, err)
		}
	}

	return nil
}

var _ core.IIDValidator = (*Validator)(nil)
