package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSONCachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{ID: "1", Name: "loft"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrLoadJSON(c, ctx, "office:1", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "loft", got.Name)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("office:1"))

	require.NoError(t, c.Invalidate(ctx, "office:1"))
	assert.False(t, mr.Exists("office:1"))
	_, err := GetOrLoadJSON(c, ctx, "office:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoadJSONDoesNotCacheErrors(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestGetOrLoadJSONNilCache(t *testing.T) {
	got, err := GetOrLoadJSON[item](nil, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return &item{ID: "x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
}
