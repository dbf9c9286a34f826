package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"wayfare/internal/adapters/observability"
	"wayfare/internal/domain"
)

const keyPrefix = "search:"

// retainSlack keeps keys in Redis past their logical expiry so expired
// rows remain observable until PurgeExpired sweeps them. Lookup never
// serves them.
const retainSlack = 24 * time.Hour

// Cache stores one JSON-encoded search cache entry per signature.
type Cache struct {
	c *redis.Client
}

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Lookup(ctx context.Context, signature string) (*domain.CacheEntry, bool, error) {
	b, err := r.c.Get(ctx, keyPrefix+signature).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("search", "miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var e domain.CacheEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false, err
	}
	if !e.Valid(time.Now().UTC()) {
		// stale row still present: counts as a miss
		observability.ObserveCache("search", "miss")
		return nil, false, nil
	}
	observability.ObserveCache("search", "hit")
	return &e, true, nil
}

// Store upserts by signature. The write itself counts as one hit; a stay
// whose check-out already passed is written expired regardless of TTL.
func (r *Cache) Store(ctx context.Context, signature string, criteria domain.SearchCriteria, hotels []domain.Hotel, total int, ttl time.Duration) (*domain.CacheEntry, error) {
	now := time.Now().UTC()
	e := &domain.CacheEntry{
		Signature:      signature,
		Criteria:       criteria,
		Hotels:         hotels,
		Total:          total,
		RetrievedAt:    now,
		ExpiresAt:      now.Add(ttl),
		Status:         domain.CacheStatusValid,
		HitCount:       1,
		LastAccessedAt: now,
	}
	if prev, err := r.c.Get(ctx, keyPrefix+signature).Bytes(); err == nil {
		var p domain.CacheEntry
		if json.Unmarshal(prev, &p) == nil {
			e.HitCount = p.HitCount + 1
		}
	}
	if !criteria.CheckOut.IsZero() && criteria.CheckOut.Before(domain.DayOf(now)) {
		e.Status = domain.CacheStatusExpired
	}

	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	observability.ObserveCache("search", "set")
	return e, r.c.Set(ctx, keyPrefix+signature, b, ttl+retainSlack).Err()
}

// RecordHit bumps hit count and last-accessed time in place, preserving
// the key's remaining TTL.
func (r *Cache) RecordHit(ctx context.Context, e *domain.CacheEntry) error {
	e.HitCount++
	e.LastAccessedAt = time.Now().UTC()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, keyPrefix+e.Signature, b, redis.KeepTTL).Err()
}

// PurgeExpired scans the signature prefix and deletes every entry that is
// past expiry, flagged expired, or undecodable. Returns the delete count.
func (r *Cache) PurgeExpired(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	purged := 0
	iter := r.c.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		b, err := r.c.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var e domain.CacheEntry
		if err := json.Unmarshal(b, &e); err == nil && e.Valid(now) {
			continue
		}
		if err := r.c.Del(ctx, key).Err(); err != nil {
			return purged, err
		}
		observability.ObserveCache("search", "purge")
		purged++
	}
	return purged, iter.Err()
}
