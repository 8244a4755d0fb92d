package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"rewards/internal/models"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:all"

type CacheService struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache effectiveness since start.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRatio  float64 `json:"hit_ratio"`
	TotalConn uint32  `json:"total_conns"`
	IdleConn  uint32  `json:"idle_conns"`
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes key into dest. A missing key is a miss, not an error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		s.misses.Add(1)
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.misses.Add(1)
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	s.hits.Add(1)
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), user)
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, bool, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "id", userID), &user)
	if err != nil || !found {
		return nil, false, err
	}
	return &user, true, nil
}

// Catalog caching
func (s *CacheService) CacheCatalog(ctx context.Context, cards []*models.CatalogCard, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.SetWithTTL(ctx, catalogKey, cards, ttl)
}

func (s *CacheService) GetCatalog(ctx context.Context) ([]*models.CatalogCard, bool, error) {
	var cards []*models.CatalogCard
	found, err := s.Get(ctx, catalogKey, &cards)
	if err != nil || !found {
		return nil, false, err
	}
	return cards, true, nil
}

func (s *CacheService) InvalidateCatalog(ctx context.Context) error {
	return s.Delete(ctx, catalogKey)
}

// Merchant override caching
func (s *CacheService) CacheOverride(ctx context.Context, o *models.MerchantOverride) error {
	return s.Set(ctx, s.GenerateKey("merchant", "override", o.Merchant), o)
}

func (s *CacheService) GetOverride(ctx context.Context, merchant string) (*models.MerchantOverride, bool, error) {
	var o models.MerchantOverride
	found, err := s.Get(ctx, s.GenerateKey("merchant", "override", merchant), &o)
	if err != nil || !found {
		return nil, false, err
	}
	return &o, true, nil
}

func (s *CacheService) InvalidateOverride(ctx context.Context, merchant string) error {
	return s.Delete(ctx, s.GenerateKey("merchant", "override", merchant))
}

// HealthCheck pings redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CacheService) GetStats() Stats {
	hits, misses := s.hits.Load(), s.misses.Load()
	st := Stats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		st.HitRatio = float64(hits) / float64(total)
	}
	if pool := s.client.PoolStats(); pool != nil {
		st.TotalConn = pool.TotalConns
		st.IdleConn = pool.IdleConns
	}
	return st
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
