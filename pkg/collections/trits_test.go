package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTritVector_SetGet(t *testing.T) {
	v := NewTritVector(25)
	for i := 0; i < 25; i++ {
		assert.Equal(t, uint8(0), v.Get(i))
	}

	v.Set(0, 2)
	v.Set(9, 1)
	v.Set(10, 2)
	v.Set(24, 1)

	assert.Equal(t, uint8(2), v.Get(0))
	assert.Equal(t, uint8(1), v.Get(9))
	assert.Equal(t, uint8(2), v.Get(10))
	assert.Equal(t, uint8(1), v.Get(24))
	assert.Equal(t, uint8(0), v.Get(1))
}

func TestTritVector_Overwrite(t *testing.T) {
	v := NewTritVector(12)
	v.Set(3, 1)
	v.Set(3, 2)
	assert.Equal(t, uint8(2), v.Get(3))
	v.Set(3, 0)
	assert.Equal(t, uint8(0), v.Get(3))
}

func TestTritVector_CloneIndependence(t *testing.T) {
	v := NewTritVector(10)
	v.Set(5, 2)
	clone := v.Clone()
	assert.True(t, v.Equal(clone))

	clone.Set(5, 1)
	assert.False(t, v.Equal(clone))
	assert.Equal(t, uint8(2), v.Get(5))
}

func TestTritVector_KeyMatchesContent(t *testing.T) {
	v1 := NewTritVector(20)
	v2 := NewTritVector(20)
	v1.Set(15, 2)
	v2.Set(15, 2)
	assert.Equal(t, v1.Key(), v2.Key())

	v2.Set(15, 1)
	assert.NotEqual(t, v1.Key(), v2.Key())
}
