package services

import (
	"context"
	"encoding/json"
	"errors"

	"VitalsHub/models"
	"VitalsHub/util"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisVitalsStore keeps every live record as a field of one hash, so the
// hash key plays the role of the "ids" tree and HKEYS lists every active
// patient in one call.
type RedisVitalsStore struct {
	client goredis.Cmdable
	key    string
}

func NewVitalsStore(client goredis.Cmdable, key string) *RedisVitalsStore {
	return &RedisVitalsStore{client: client, key: key}
}

func (s *RedisVitalsStore) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.HExists(ctx, s.key, id).Result()
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from hexists")
		return false, util.StoreError(err)
	}
	return ok, nil
}

func (s *RedisVitalsStore) Get(ctx context.Context, id string) (*models.Vitals, error) {
	raw, err := s.client.HGet(ctx, s.key, id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from hget")
		return nil, util.StoreError(err)
	}
	var vitals models.Vitals
	if err := json.Unmarshal(raw, &vitals); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Corrupt live vitals record")
		return nil, util.StoreError(err)
	}
	return &vitals, nil
}

// Set replaces the whole record.
func (s *RedisVitalsStore) Set(ctx context.Context, id string, vitals models.Vitals) error {
	raw, err := json.Marshal(vitals)
	if err != nil {
		return util.StoreError(err)
	}
	if err := s.client.HSet(ctx, s.key, id, raw).Err(); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from hset")
		return util.StoreError(err)
	}
	return nil
}

func (s *RedisVitalsStore) SetIfAbsent(ctx context.Context, id string, vitals models.Vitals) (bool, error) {
	raw, err := json.Marshal(vitals)
	if err != nil {
		return false, util.StoreError(err)
	}
	written, err := s.client.HSetNX(ctx, s.key, id, raw).Result()
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from hsetnx")
		return false, util.StoreError(err)
	}
	return written, nil
}

func (s *RedisVitalsStore) Remove(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from hdel")
		return util.StoreError(err)
	}
	return nil
}

func (s *RedisVitalsStore) ListAllIDs(ctx context.Context) (map[string]struct{}, error) {
	keys, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		log.Error().Err(err).Msg("Error from hkeys")
		return nil, util.StoreError(err)
	}
	ids := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		ids[k] = struct{}{}
	}
	return ids, nil
}
