package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToInt32Clamped(t *testing.T) {
	assert.Equal(t, int32(42), IntToInt32Clamped(42))
	assert.Equal(t, int32(math.MaxInt32), IntToInt32Clamped(math.MaxInt32+10))
	assert.Equal(t, int32(math.MinInt32), IntToInt32Clamped(math.MinInt32-10))
}

func TestIntToUint32Clamped(t *testing.T) {
	assert.Equal(t, uint32(5), IntToUint32Clamped(5))
	assert.Equal(t, uint32(0), IntToUint32Clamped(-3))
	assert.Equal(t, uint32(math.MaxUint32), IntToUint32Clamped(math.MaxUint32+1))
}
