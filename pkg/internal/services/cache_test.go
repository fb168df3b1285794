package services

import (
	"context"
	"testing"
	"time"

	localCache "git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useCache(t *testing.T) {
	t.Helper()

	require.NoError(t, localCache.NewStore())
	t.Cleanup(func() { localCache.S = nil })
}

func waitCached(t *testing.T, account uint) {
	t.Helper()

	// Ristretto applies writes from a buffer.
	require.Eventually(t, func() bool {
		_, err := localCache.S.Get(context.Background(), friendCacheKey(account))
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestFriendCacheInvalidatedOnAccept(t *testing.T) {
	db := newTestDB(t)
	useCache(t)
	alice := newTestAccount(t, db, "alice")
	bob := newTestAccount(t, db, "bob")

	post := postAt(t, db, bob.ID, "hello alice", 0)

	assert.Empty(t, friendsOf(t, db, alice.ID))
	assert.Empty(t, friendsOf(t, db, bob.ID))
	waitCached(t, alice.ID)
	waitCached(t, bob.ID)

	// Served from the cache while warm.
	ids, err := ListFriendIDs(db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, feedIDs(t, db, alice.ID))

	makeFriends(t, db, alice.ID, bob.ID)

	assert.Equal(t, []uint{bob.ID}, friendsOf(t, db, alice.ID))
	assert.Equal(t, []uint{alice.ID}, friendsOf(t, db, bob.ID))

	items, err := ListAccountsWithStatus(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.RelationshipFriend, items[0].Status)

	assert.Equal(t, []uint{post.ID}, feedIDs(t, db, alice.ID))

	waitCached(t, alice.ID)
	feed, err := GetFeed(db, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, lo.Map(feed, func(item models.Post, _ int) uint {
		return item.ID
	}))
}
