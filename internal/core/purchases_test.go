package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchase_CapturesPriceSnapshot(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	author := createTestUser(t, c, "author")
	buyer := createTestUser(t, c, "buyer")
	post := createTestPost(t, c, author.ID, "useful script", 1500)

	require.NoError(t, c.Purchase(ctx, buyer.ID, post.ID))

	// Raising the post price must not touch the existing snapshot.
	post.PriceCents = 9900
	_, err := c.UpdatePost(ctx, post)
	require.NoError(t, err)

	purchase, err := c.GetPurchaseByUserAndPost(ctx, buyer.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), purchase.PriceCents)
}

func TestPurchase_IsIdempotent(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	author := createTestUser(t, c, "author")
	buyer := createTestUser(t, c, "buyer")
	post := createTestPost(t, c, author.ID, "useful script", 1500)

	require.NoError(t, c.Purchase(ctx, buyer.ID, post.ID))

	// Price changes between duplicate requests, the first snapshot wins.
	post.PriceCents = 2500
	_, err := c.UpdatePost(ctx, post)
	require.NoError(t, err)

	require.NoError(t, c.Purchase(ctx, buyer.ID, post.ID))

	purchases, err := c.GetPurchasesByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, int64(1500), purchases[0].PriceCents)
}

func TestRefund_IsIdempotent(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	author := createTestUser(t, c, "author")
	buyer := createTestUser(t, c, "buyer")
	post := createTestPost(t, c, author.ID, "useful script", 1500)

	require.NoError(t, c.Purchase(ctx, buyer.ID, post.ID))
	require.NoError(t, c.Refund(ctx, buyer.ID, post.ID))
	require.NoError(t, c.Refund(ctx, buyer.ID, post.ID))

	purchased, err := c.HasPurchased(ctx, buyer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, purchased)
}

func TestPurchase_UnknownPostInsertsNothing(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	buyer := createTestUser(t, c, "buyer")

	require.NoError(t, c.Purchase(ctx, buyer.ID, 424242))

	purchases, err := c.GetPurchasesByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}
