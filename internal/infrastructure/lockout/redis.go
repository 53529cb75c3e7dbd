package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

const keyPrefix = "devops:lockout:"

// RedisStore shares lockout state across instances. Failures are counted in a key that expires with
// the cooldown; the lock key exists while the account is locked. Redis errors fail open.
type RedisStore struct {
	rdb      redis.UniversalClient
	max      int
	cooldown time.Duration
	log      zerolog.Logger
}

func NewRedisStore(rdb redis.UniversalClient, maxAttempts, cooldownSeconds int, log zerolog.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, max: maxAttempts, cooldown: cooldownOrDefault(cooldownSeconds), log: log}
}

func failuresKey(username string) string { return keyPrefix + "failures:" + username }
func lockedKey(username string) string   { return keyPrefix + "locked:" + username }

func (s *RedisStore) IsLocked(ctx context.Context, username string) (bool, int) {
	if s.max <= 0 {
		return false, 0
	}
	ttl, err := s.rdb.PTTL(ctx, lockedKey(username)).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("lockout lookup failed")
		return false, 0
	}
	// PTTL reports -2 for a missing key.
	if ttl <= 0 {
		return false, 0
	}
	return true, retryAfter(ttl)
}

func (s *RedisStore) RecordFailure(ctx context.Context, username string) {
	if s.max <= 0 {
		return
	}
	fk := failuresKey(username)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, fk)
	pipe.Expire(ctx, fk, s.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout record failed")
		return
	}
	if incr.Val() < int64(s.max) {
		return
	}
	pipe = s.rdb.TxPipeline()
	pipe.Set(ctx, lockedKey(username), 1, s.cooldown)
	pipe.Del(ctx, fk)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout lock failed")
	}
}

func (s *RedisStore) RecordSuccess(ctx context.Context, username string) {
	if s.max <= 0 {
		return
	}
	if err := s.rdb.Del(ctx, failuresKey(username), lockedKey(username)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("lockout reset failed")
	}
}

var _ ports.LoginLockoutStore = (*RedisStore)(nil)
