package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_IsIdempotent(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	follower := createTestUser(t, c, "follower")
	author := createTestUser(t, c, "author")

	require.NoError(t, c.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, c.Follow(ctx, follower.ID, author.ID))

	count, err := c.CountFollows(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	following, err := c.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollow_SelfFollowIsIgnored(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	user := createTestUser(t, c, "narcissus")

	require.NoError(t, c.Follow(ctx, user.ID, user.ID))

	count, err := c.CountFollows(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnfollow_MissingRecordIsNoOp(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	follower := createTestUser(t, c, "follower")
	author := createTestUser(t, c, "author")

	require.NoError(t, c.Unfollow(ctx, follower.ID, author.ID))

	count, err := c.CountFollows(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnfollow_RemovesFollow(t *testing.T) {
	c := newTestCore(t)
	ctx := context.Background()

	follower := createTestUser(t, c, "follower")
	author := createTestUser(t, c, "author")

	require.NoError(t, c.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, c.Unfollow(ctx, follower.ID, author.ID))

	following, err := c.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing again stays a no-op.
	require.NoError(t, c.Unfollow(ctx, follower.ID, author.ID))
}
