package domain

import "fmt"

// IDSlice ID切片类型
type IDSlice []ID

// FromInt64s 从int64切片转换
func FromInt64s(values []int64) IDSlice {
	result := make(IDSlice, len(values))
	for i, v := range values {
		result[i] = ID(v)
	}
	return result
}

// Int64Slice 转换为int64切片
func (ids IDSlice) Int64Slice() []int64 {
	result := make([]int64, len(ids))
	for i, id := range ids {
		result[i] = id.Int64()
	}
	return result
}

// StringSlice 转换为字符串切片
func (ids IDSlice) StringSlice() []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

// Contains 检查是否包含指定ID（线性查找）
func (ids IDSlice) Contains(id ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// IsStrictlyIncreasing 检查ID是否严格递增
// 说明：同一生成器产生的ID序列必然满足此条件
func (ids IDSlice) IsStrictlyIncreasing() bool {
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return false
		}
	}
	return true
}

// ValidateAll 验证切片中所有ID的有效性
func (ids IDSlice) ValidateAll() error {
	for i, id := range ids {
		if err := id.Validate(); err != nil {
			return fmt.Errorf("invalid ID at index %d: %w", i, err)
		}
	}
	return nil
}
