package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-common-idgen/pkg/idgen/core"
)

func TestNext(t *testing.T) {
	id1, err := Next(1, 1)
	require.NoError(t, err)
	id2, err := Next(1, 1)
	require.NoError(t, err)
	assert.Greater(t, id2.Int64(), id1.Int64())

	info, err := Parse(id2.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.WorkerID)
	assert.Equal(t, int64(1), info.DataCenterID)

	_, err = Next(1, 8)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator(31, 7)
	require.NoError(t, err)

	id, err := gen.Next()
	require.NoError(t, err)

	info, err := Parse(ID(id).Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(31), info.WorkerID)
	assert.Equal(t, int64(7), info.DataCenterID)

	_, err = NewGenerator(32, 0)
	assert.ErrorIs(t, err, core.ErrInvalidWorkerID)

	_, err = Parse("")
	assert.ErrorIs(t, err, core.ErrInvalidSnowflakeID)
}
