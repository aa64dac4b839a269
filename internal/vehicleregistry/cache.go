// internal/vehicleregistry/cache.go
package vehicleregistry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"field-verification/internal/common/logger"
	"field-verification/internal/common/metrics"
	"field-verification/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "vehicle:rc:"
	platesKey       = "vehicle:plates"
)

// CachedStore puts a Redis cache-aside layer in front of another Store.
// Redis failures are logged and fall through to the backing store.
type CachedStore struct {
	next      Store
	redis     *redis.Client
	logger    logger.Logger
	recordTTL time.Duration
	platesTTL time.Duration
}

func NewCachedStore(next Store, rdb *redis.Client, log logger.Logger, recordTTL, platesTTL time.Duration) *CachedStore {
	return &CachedStore{
		next:      next,
		redis:     rdb,
		logger:    log.WithFields(map[string]interface{}{"component": "vehicle-registry-cache"}),
		recordTTL: recordTTL,
		platesTTL: platesTTL,
	}
}

func recordKey(plate string) string {
	return recordKeyPrefix + plate
}

func (s *CachedStore) Get(ctx context.Context, plate string) (*models.VehicleRecord, error) {
	key := recordKey(plate)

	cached, err := s.redis.Get(ctx, key).Result()
	if err == nil {
		var r models.VehicleRecord
		if jsonErr := json.Unmarshal([]byte(cached), &r); jsonErr == nil {
			metrics.VehicleRegistryLookups.WithLabelValues("cache", "hit").Inc()
			return &r, nil
		}
		s.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key})
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("redis get failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	metrics.VehicleRegistryLookups.WithLabelValues("cache", "miss").Inc()
	r, err := s.next.Get(ctx, plate)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(r); err == nil {
		if err := s.redis.Set(ctx, key, data, s.recordTTL).Err(); err != nil {
			s.logger.Warn("redis set failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return r, nil
}

func (s *CachedStore) Plates(ctx context.Context) ([]string, error) {
	cached, err := s.redis.Get(ctx, platesKey).Result()
	if err == nil {
		var plates []string
		if jsonErr := json.Unmarshal([]byte(cached), &plates); jsonErr == nil {
			return plates, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("redis get failed", map[string]interface{}{"key": platesKey, "error": err.Error()})
	}

	plates, err := s.next.Plates(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(plates); err == nil {
		if err := s.redis.Set(ctx, platesKey, data, s.platesTTL).Err(); err != nil {
			s.logger.Warn("redis set failed", map[string]interface{}{"key": platesKey, "error": err.Error()})
		}
	}
	return plates, nil
}

// Invalidate drops a plate's record and the plate list.
func (s *CachedStore) Invalidate(ctx context.Context, plate string) error {
	if err := s.redis.Del(ctx, recordKey(plate), platesKey).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", plate, err)
	}
	return nil
}
