package cartstate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/storefront/internal/domain"
)

func stores(t *testing.T) map[string]domain.CartState {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := Dial(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]domain.CartState{
		"redis":  NewRedis(rdb, time.Hour),
		"memory": NewMemory(),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			snap, err := st.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Nil(t, snap)

			require.NoError(t, st.Set(ctx, "s1", domain.CartSnapshot{Items: 3, Total: decimal.RequireFromString("41.50")}))
			snap, err = st.Get(ctx, "s1")
			require.NoError(t, err)
			require.NotNil(t, snap)
			assert.Equal(t, 3, snap.Items)
			assert.True(t, snap.Total.Equal(decimal.RequireFromString("41.5")))

			other, err := st.Get(ctx, "s2")
			require.NoError(t, err)
			assert.Nil(t, other)

			require.NoError(t, st.Clear(ctx, "s1"))
			snap, err = st.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Nil(t, snap)
		})
	}
}

func TestRedisExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := Dial(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()
	st := NewRedis(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "s1", domain.CartSnapshot{Items: 1}))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"s1"))

	mr.FastForward(2 * time.Minute)
	snap, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestDialFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Dial(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
