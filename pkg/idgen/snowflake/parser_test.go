package snowflake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-common-idgen/pkg/idgen/core"
)

// TestCompose_RoundTrip 测试位布局组装与拆解
func TestCompose_RoundTrip(t *testing.T) {
	id := Compose(Epoch+1000, 2, 5, 3)
	assert.Equal(t, int64((1000<<16)|(2<<13)|(5<<8)|3), id)

	info := Decompose(id)
	assert.Equal(t, core.IDInfo{
		ID:           id,
		Timestamp:    Epoch + 1000,
		DataCenterID: 2,
		WorkerID:     5,
		Sequence:     3,
	}, info)
}

// TestCompose_Boundaries 测试字段最大值不会相互覆盖
func TestCompose_Boundaries(t *testing.T) {
	id := Compose(Epoch+1, MaxDataCenterID, MaxWorkerID, MaxSequence)
	info := Decompose(id)
	assert.Equal(t, Epoch+1, info.Timestamp)
	assert.Equal(t, int64(MaxDataCenterID), info.DataCenterID)
	assert.Equal(t, int64(MaxWorkerID), info.WorkerID)
	assert.Equal(t, int64(MaxSequence), info.Sequence)
}

// TestParser_Parse 测试解析生成的ID
func TestParser_Parse(t *testing.T) {
	gen, err := New(10, 5)
	require.NoError(t, err)

	id, err := gen.Next()
	require.NoError(t, err)

	parser := NewParser()
	info, err := parser.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.WorkerID)
	assert.Equal(t, int64(5), info.DataCenterID)
	assert.Equal(t, int64(0), info.Sequence)
	assert.WithinDuration(t, time.Now(), parser.ExtractTime(id), time.Second)

	assert.Equal(t, info.Timestamp, parser.ExtractTimestamp(id))
	assert.Equal(t, info.DataCenterID, parser.ExtractDataCenterID(id))
	assert.Equal(t, info.WorkerID, parser.ExtractWorkerID(id))
	assert.Equal(t, info.Sequence, parser.ExtractSequence(id))
}

// TestParser_Invalid 测试无效ID
func TestParser_Invalid(t *testing.T) {
	parser := NewParser()
	future := Compose(time.Now().Add(time.Hour).UnixMilli(), 0, 0, 0)

	for _, id := range []int64{0, -1, future} {
		_, err := parser.Parse(id)
		assert.ErrorIs(t, err, core.ErrInvalidSnowflakeID, "id=%d", id)

		_, err = ParseID(id)
		assert.ErrorIs(t, err, core.ErrInvalidSnowflakeID, "id=%d", id)
	}

	assert.Equal(t, int64(0), parser.ExtractTimestamp(-1))
	assert.True(t, parser.ExtractTime(0).IsZero())
	assert.Equal(t, int64(-1), parser.ExtractDataCenterID(0))
	assert.Equal(t, int64(-1), parser.ExtractWorkerID(0))
	assert.Equal(t, int64(-1), parser.ExtractSequence(0))
}

// TestValidator_ValidateBatch 测试批量验证
func TestValidator_ValidateBatch(t *testing.T) {
	v := NewValidator()
	valid := Compose(Epoch+1000, 1, 1, 1)

	assert.NoError(t, v.ValidateBatch([]int64{}))
	assert.NoError(t, v.ValidateBatch([]int64{valid, valid + 1}))
	assert.ErrorIs(t, v.ValidateBatch(nil), core.ErrInvalidSnowflakeID)

	err := v.ValidateBatch([]int64{valid, 0})
	assert.ErrorIs(t, err, core.ErrInvalidSnowflakeID)
	assert.Contains(t, err.Error(), "index 1")

	assert.NoError(t, ValidateID(valid))
}

// TestValidator_ZeroValue 测试零值验证器可直接使用
func TestValidator_ZeroValue(t *testing.T) {
	var v Validator
	assert.NotPanics(t, func() {
		assert.NoError(t, v.Validate(Compose(Epoch+1000, 1, 1, 0)))
		assert.ErrorIs(t, v.Validate(0), core.ErrInvalidSnowflakeID)
		assert.ErrorIs(t, v.Validate(Compose(time.Now().UnixMilli()+10*60*1000, 1, 1, 0)), core.ErrInvalidSnowflakeID)
	})
}
