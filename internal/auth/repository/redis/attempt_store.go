package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskflowhq/taskflow/internal/auth/domain"
)

const (
	failureKeyPrefix = "login_attempts:failed:"
	successKeyPrefix = "login_attempts:success:"
)

// AttemptStore keeps login attempts in per-email sorted sets, scored by
// attempt time in milliseconds. Lockout queries become a ZCOUNT over
// the window. Entries older than the retention period are trimmed on
// each append.
type AttemptStore struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewAttemptStore(rdb *redis.Client, retention time.Duration) *AttemptStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &AttemptStore{rdb: rdb, retention: retention}
}

func (s *AttemptStore) Append(ctx context.Context, attempt *domain.LoginAttempt) error {
	key := failureKey(attempt.Email)
	if attempt.Success {
		key = successKey(attempt.Email)
	}

	member := attempt.ID
	if attempt.FailureReason != nil {
		member = attempt.ID + ":" + *attempt.FailureReason
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(attempt.AttemptTime.UnixMilli()),
		Member: member,
	})
	cutoff := attempt.AttemptTime.Add(-s.retention).UnixMilli()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff))
	pipe.Expire(ctx, key, s.retention)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *AttemptStore) CountFailures(ctx context.Context, email string, since time.Time) (int, error) {
	count, err := s.rdb.ZCount(ctx, failureKey(email),
		fmt.Sprintf("%d", since.UnixMilli()), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func failureKey(email string) string {
	return failureKeyPrefix + email
}

func successKey(email string) string {
	return successKeyPrefix + email
}
