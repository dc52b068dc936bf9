package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront-embed/pkg/errors"
)

func TestClientStorageRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewConnection(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	repo := NewClientStorageRepository(client, time.Hour, nil)

	_, err = repo.Get(ctx, "s1", "sf_cart_id")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, repo.Put(ctx, "s1", "sf_cart_id", "gid://shopify/Cart/1"))
	got, err := repo.Get(ctx, "s1", "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/1", got)

	assert.True(t, mr.Exists("sf:storage:s1:sf_cart_id"))
	assert.Equal(t, time.Hour, mr.TTL("sf:storage:s1:sf_cart_id"))

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, "s1", "sf_cart_id")
	assert.True(t, errors.IsNotFound(err))
}

func TestNewConnectionRejectsBadURL(t *testing.T) {
	_, err := NewConnection(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REDIS_URL")
}

func TestClientStorageReportsServerErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewConnection(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	repo := NewClientStorageRepository(client, time.Hour, nil)
	mr.SetError("ERR server unavailable")

	_, err = repo.Get(ctx, "s1", "sf_cart_id")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}
