package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 66.7, Round(66.666, 1))
	assert.Equal(t, 33.33, Round(33.333, 2))
	assert.Equal(t, 70.0, Round(70, 1))
	assert.Equal(t, 0.0, Round(0, 2))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(120, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 70.0, Percentage(70, 100))
}

func TestNewULID(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 100; i++ {
		id := NewULID()
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
		prev = id
	}
}
