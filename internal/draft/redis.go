package draft

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// saveScript performs the compare-and-set in one round trip.  The entry is
// a hash {version, updated_at, data}; the script returns the new version or
// -1 when the stored version does not match.
var saveScript = redis.NewScript(`
	local key = KEYS[1]
	local expected = tonumber(ARGV[1])
	local data = ARGV[2]
	local now_ms = ARGV[3]
	local ttl_ms = tonumber(ARGV[4])

	local current = tonumber(redis.call('HGET', key, 'version'))
	if current == nil then current = 0 end
	if current ~= expected then
		return -1
	end

	local bumped = current + 1
	redis.call('HSET', key, 'version', bumped, 'updated_at', now_ms, 'data', data)
	if ttl_ms > 0 then
		redis.call('PEXPIRE', key, ttl_ms)
	end
	return bumped
`)

// RedisStore keeps entries as Redis hashes that expire after ttl of
// inactivity.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store backed by rdb.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string) (Entry, error) {
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("load draft %s: %w", key, err)
	}
	return entryFromHash(key, vals)
}

// entryFromHash decodes the hash written by saveScript.  An empty hash is a
// missing key.
func entryFromHash(key string, vals map[string]string) (Entry, error) {
	if len(vals) == 0 {
		return Entry{}, ErrNotFound
	}
	version, err := strconv.ParseInt(vals["version"], 10, 64)
	if err != nil || version < 1 {
		return Entry{}, fmt.Errorf("draft %s: bad version %q", key, vals["version"])
	}
	ms, _ := strconv.ParseInt(vals["updated_at"], 10, 64)
	return Entry{
		Version:   version,
		UpdatedAt: time.UnixMilli(ms).UTC(),
		Data:      []byte(vals["data"]),
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (Entry, error) {
	now := time.Now().UTC()
	res, err := saveScript.Run(ctx, s.rdb, []string{key},
		expectedVersion,
		string(data),
		now.UnixMilli(),
		s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return Entry{}, fmt.Errorf("save draft %s: %w", key, err)
	}
	return savedEntry(res, now, data)
}

// savedEntry turns the script reply into the new entry; -1 means the
// stored version did not match.
func savedEntry(reply int64, now time.Time, data []byte) (Entry, error) {
	if reply < 1 {
		return Entry{}, ErrVersionConflict
	}
	return Entry{Version: reply, UpdatedAt: time.UnixMilli(now.UnixMilli()).UTC(), Data: data}, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete draft %s: %w", key, err)
	}
	return nil
}
