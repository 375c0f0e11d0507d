package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	type request struct {
		Balance float64 `json:"balance"`
		Extra   float64 `json:"extra"`
	}

	a, err := Key("schedule", request{Balance: 350000, Extra: 100})
	require.NoError(t, err)
	b, err := Key("schedule", request{Balance: 350000, Extra: 100})
	require.NoError(t, err)
	c, err := Key("schedule", request{Balance: 350000, Extra: 200})
	require.NoError(t, err)
	d, err := Key("stats", request{Balance: 350000, Extra: 100})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.True(t, strings.HasPrefix(a, "schedule:"))
	assert.Len(t, strings.TrimPrefix(a, "schedule:"), 64)
}

func TestKeyRejectsUnencodable(t *testing.T) {
	_, err := Key("schedule", make(chan int))
	assert.Error(t, err)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "key", []byte("value"), 0))
	val, found, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), val)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	value := []byte("value")
	require.NoError(t, m.Set(ctx, "key", value, 0))
	value[0] = 'X'

	got, _, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", string(got))

	got[0] = 'Y'
	again, _, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", string(again))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	m := NewMemory(func() time.Time { return now })

	require.NoError(t, m.Set(ctx, "key", []byte("value"), time.Minute))

	now = now.Add(59 * time.Second)
	_, found, err := m.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found, "entry should live until its ttl")

	now = now.Add(time.Second)
	_, found, err = m.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found, "entry should expire at its ttl")
	assert.Equal(t, 0, m.Len())
}
