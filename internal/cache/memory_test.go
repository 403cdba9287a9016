package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryDeleteAbsent(t *testing.T) {
	c := NewMemory()
	assert.NoError(t, c.Delete(context.Background(), "never-set"))
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	val := []byte("original")
	require.NoError(t, c.Set(ctx, "k", val))
	val[0] = 'X'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "rugs:42", Key("rugs", 42))
	assert.Equal(t, "users:0", Key("users", 0))
}
