package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/usecase"
)

func TestCacheKey(t *testing.T) {
	prefix := "https://api.github.com/repos/acme/widgets/commits?sha=main"
	base := usecase.CacheKey(prefix, nil, 1)

	gt.Equal(t, len(base), 40)
	gt.Equal(t, usecase.CacheKey(prefix, nil, 1), base)
	gt.NotEqual(t, usecase.CacheKey(prefix, nil, 2), base)
	gt.NotEqual(t, usecase.CacheKey(prefix, []string{"vendor.js"}, 1), base)
	gt.NotEqual(t, usecase.CacheKey(prefix+"x", nil, 1), base)
}

func TestCommitCache_KeyIgnoresSince(t *testing.T) {
	cache := usecase.NewCommitCache(newMockStore())
	repo := newRepo("acme", "widgets")
	key := cache.Key(repo, nil)

	since := day(3)
	repo.Since = &since
	gt.Equal(t, cache.Key(repo, nil), key)

	versioned := usecase.NewCommitCache(newMockStore(), usecase.WithSchemaVersion(2))
	gt.NotEqual(t, versioned.Key(repo, nil), key)
}

func TestCommitCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := usecase.NewCommitCache(newMockStore())

	bucket := model.AuthorBucket{}
	bucket.Add(record("a1", "alice", day(1), 10, 2))
	bucket.Add(record("b1", "bob", day(4), 3, 3))
	bucket.Add(record("a2", "alice", day(2), 1, 0))

	gt.NoError(t, cache.Store(ctx, "key", bucket))

	entry, ok := cache.Load(ctx, "key")
	gt.True(t, ok)
	gt.Equal(t, entry.Count, 3)
	gt.Equal(t, entry.LatestSHA, "b1")
	gt.Equal(t, entry.LatestTimestamp, day(4))
	gt.A(t, entry.Bucket["alice"]).Length(2)
	gt.Equal(t, entry.Bucket["alice"][0].Stats, model.NewStats(10, 2, 12))
}

func TestCommitCache_Miss(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		cache := usecase.NewCommitCache(newMockStore())
		_, ok := cache.Load(ctx, "nothing")
		gt.False(t, ok)
	})

	t.Run("malformed payload", func(t *testing.T) {
		store := newMockStore()
		store.data["key"] = []byte("{not json")
		cache := usecase.NewCommitCache(store)
		_, ok := cache.Load(ctx, "key")
		gt.False(t, ok)
	})

	t.Run("unreadable store", func(t *testing.T) {
		store := newMockStore()
		store.getErr = errors.New("disk on fire")
		cache := usecase.NewCommitCache(store)
		_, ok := cache.Load(ctx, "key")
		gt.False(t, ok)
	})

	t.Run("disabled cache", func(t *testing.T) {
		cache := usecase.NewCommitCache(nil)
		gt.NoError(t, cache.Store(ctx, "key", model.AuthorBucket{}))
		_, ok := cache.Load(ctx, "key")
		gt.False(t, ok)
	})
}
