// Package session holds the server-side complement to the stateless token:
// a short-TTL cache of each subject's live role and verification status,
// and a per-subject revocation watermark set on logout. Both live in Redis
// and are consulted on the request path.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

const (
	claimsKeyPrefix  = "session:claims:"
	revokedKeyPrefix = "session:revoked:"

	// SnapshotTTL bounds how stale a cached snapshot may get. Mutations
	// invalidate eagerly; the TTL only covers missed invalidations.
	SnapshotTTL = 60 * time.Second
)

// ErrUnavailable signals that Redis could not answer. Callers on the
// authorization path must fail closed on the revocation check and fall
// back to token claims on the snapshot check.
var ErrUnavailable = errors.New("session: cache unavailable")

// Snapshot is the live view of a subject's claims, fresher than the
// 24h token snapshot.
type Snapshot struct {
	Role   domain.Role               `json:"role"`
	Status domain.VerificationStatus `json:"status"`
}

type Cache struct {
	client   *goredis.Client
	tokenTTL time.Duration
}

// NewCache wraps an injected Redis client. tokenTTL is the session token
// lifetime; revocation watermarks are kept at least that long.
func NewCache(client *goredis.Client, tokenTTL time.Duration) *Cache {
	return &Cache{client: client, tokenTTL: tokenTTL}
}

// Get returns the cached snapshot for the subject, nil on a miss.
// Enabled reports whether a Redis client is attached. Without one the
// cache degrades to a no-op: no snapshots, no revocation watermarks.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Get(ctx context.Context, userID string) (*Snapshot, error) {
	if c == nil || c.client == nil {
		return nil, ErrUnavailable
	}
	raw, err := c.client.Get(ctx, claimsKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, ErrUnavailable
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, nil // treat a corrupt entry as a miss
	}
	return &snap, nil
}

// Set stores the subject's snapshot with SnapshotTTL.
func (c *Cache) Set(ctx context.Context, userID string, snap Snapshot) error {
	if c == nil || c.client == nil {
		return ErrUnavailable
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, claimsKeyPrefix+userID, raw, SnapshotTTL).Err()
}

// Invalidate drops the cached snapshot. Called on every role or
// verification-status mutation.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return ErrUnavailable
	}
	return c.client.Del(ctx, claimsKeyPrefix+userID).Err()
}

// Revoke sets the subject's watermark: tokens issued at or before now are
// invalid. Kept for the token lifetime, after which expiry takes over.
func (c *Cache) Revoke(ctx context.Context, userID string, now time.Time) error {
	if c == nil || c.client == nil {
		return ErrUnavailable
	}
	return c.client.Set(ctx, revokedKeyPrefix+userID, strconv.FormatInt(now.Unix(), 10), c.tokenTTL).Err()
}

// Revoked reports whether a token issued at issuedAt has been revoked for
// the subject. Returns ErrUnavailable when Redis cannot answer; the caller
// must fail closed.
func (c *Cache) Revoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	if c == nil || c.client == nil {
		return false, ErrUnavailable
	}
	raw, err := c.client.Get(ctx, revokedKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, ErrUnavailable
	}
	mark, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, nil
	}
	return !issuedAt.After(time.Unix(mark, 0)), nil
}
