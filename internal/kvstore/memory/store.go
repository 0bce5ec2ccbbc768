package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Store implements kvstore.Store in process memory. Values are lost on restart.
type Store struct {
	cache *cache.Cache
}

// NewStore creates an in-memory store that sweeps expired keys every cleanupInterval.
func NewStore(cleanupInterval time.Duration) *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", apperrors.NotFound("key", key)
	}
	return v.(string), nil
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
