package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"reliefregistry/internal/registry"
	"reliefregistry/pkg/fingerprint"
)

const evidenceKeyPrefix = "evidence:"

// FingerprintCache decorates a Store with a Redis read-through cache for
// ExistsByFingerprint. Only positive answers are cached: a fingerprint, once
// indexed, is indexed forever, so positive entries can never go stale.
// Negative answers are always answered by the underlying store because the
// very next submission can invalidate them.
//
// Cache failures degrade to the underlying store; the cache is derived state
// and the store remains the source of truth.
type FingerprintCache struct {
	Store
	rdb    *redis.Client
	logger *slog.Logger
}

func NewFingerprintCache(inner Store, rdb *redis.Client, logger *slog.Logger) *FingerprintCache {
	return &FingerprintCache{Store: inner, rdb: rdb, logger: logger}
}

func (c *FingerprintCache) ExistsByFingerprint(ctx context.Context, fp fingerprint.Fingerprint) (bool, error) {
	key := evidenceKeyPrefix + fp.String()
	_, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("fingerprint cache read failed", "error", err)
	}

	exists, err := c.Store.ExistsByFingerprint(ctx, fp)
	if err != nil {
		return false, err
	}
	if exists {
		c.cache(ctx, fp)
	}
	return exists, nil
}

func (c *FingerprintCache) CreateSubmission(ctx context.Context, sub registry.Submission, beforeCommit BeforeCommit) (registry.SubmissionID, error) {
	id, err := c.Store.CreateSubmission(ctx, sub, beforeCommit)
	if err != nil {
		return 0, err
	}
	c.cache(ctx, sub.Evidence)
	return id, nil
}

func (c *FingerprintCache) cache(ctx context.Context, fp fingerprint.Fingerprint) {
	key := evidenceKeyPrefix + fp.String()
	if err := c.rdb.Set(ctx, key, "1", 0).Err(); err != nil {
		c.logger.Warn("fingerprint cache write failed", "error", err)
	}
}
