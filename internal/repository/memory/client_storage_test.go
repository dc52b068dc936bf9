package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

func TestClientStorageIsScopedBySession(t *testing.T) {
	ctx := context.Background()
	repo := NewClientStorageRepository()

	_, err := repo.Get(ctx, "s1", "sf_cart_id")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, repo.Put(ctx, "s1", "sf_cart_id", "gid://shopify/Cart/1"))
	require.NoError(t, repo.Put(ctx, "s1", "sf_cart_id", "gid://shopify/Cart/2"))

	got, err := repo.Get(ctx, "s1", "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/2", got)

	_, err = repo.Get(ctx, "s2", "sf_cart_id")
	assert.True(t, errors.IsNotFound(err))
}

func TestSessionStorageOverMemory(t *testing.T) {
	ctx := context.Background()
	storage := repository.NewSessionStorage(NewClientStorageRepository(), "session", nil)

	value, err := storage.GetItem(ctx, "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, storage.SetItem(ctx, "sf_cart_id", "gid://shopify/Cart/9"))
	value, err = storage.GetItem(ctx, "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/9", value)
}
