package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// CommitCache persists the commits fetched for one query so later runs only
// fetch what is new
type CommitCache struct {
	store         interfaces.CacheStore
	schemaVersion int
}

// CacheOption configures CommitCache
type CacheOption func(*CommitCache)

// WithSchemaVersion overrides the schema version hashed into every key
func WithSchemaVersion(version int) CacheOption {
	return func(c *CommitCache) {
		c.schemaVersion = version
	}
}

// NewCommitCache creates a cache on top of a byte store. A nil store disables caching.
func NewCommitCache(store interfaces.CacheStore, opts ...CacheOption) *CommitCache {
	c := &CommitCache{
		store:         store,
		schemaVersion: types.CacheSchemaVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key of a repository query. The "since" boundary is
// not part of the key.
func (c *CommitCache) Key(repo *model.Repository, ignoreFiles []string) string {
	return CacheKey(repo.ListURLPrefix(), ignoreFiles, c.schemaVersion)
}

// CacheKey returns the hex SHA-1 of the listing URL prefix, the ignore files
// and the schema version
func CacheKey(listURLPrefix string, ignoreFiles []string, schemaVersion int) string {
	h := sha1.New()
	h.Write([]byte(listURLPrefix))
	h.Write([]byte(strings.Join(ignoreFiles, ",")))
	h.Write([]byte(strconv.Itoa(schemaVersion)))
	return hex.EncodeToString(h.Sum(nil))
}

// Load returns the cached entry of key. Unreadable or malformed entries are
// reported as a miss.
func (c *CommitCache) Load(ctx context.Context, key string) (*model.CacheEntry, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	logger := ctxlog.From(ctx)

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read cache entry, ignoring it", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var bucket model.AuthorBucket
	if err := json.Unmarshal(data, &bucket); err != nil {
		logger.Warn("Malformed cache entry, ignoring it", "key", key, "error", err)
		return nil, false
	}
	if bucket == nil {
		bucket = model.AuthorBucket{}
	}

	return model.NewCacheEntry(bucket), true
}

// Store replaces the cached bucket of key
func (c *CommitCache) Store(ctx context.Context, key string, bucket model.AuthorBucket) error {
	if c == nil || c.store == nil {
		return nil
	}

	data, err := json.Marshal(bucket)
	if err != nil {
		return goerr.Wrap(err, "failed to encode cache entry", goerr.V("key", key))
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		return goerr.Wrap(err, "failed to write cache entry", goerr.V("key", key))
	}

	ctxlog.From(ctx).Debug("Cache entry written", "key", key, "commits", bucket.Count())
	return nil
}
