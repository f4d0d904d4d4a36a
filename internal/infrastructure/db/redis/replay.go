package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opsdesk/console/internal/core/domain"
)

const replayTTL = time.Hour

// ReplayChecker provides idempotency checks for the auth trail backed by
// Redis. Key format: auth_replay:<username>:<kind>:<unix_timestamp>
type ReplayChecker struct {
	client *redis.Client
}

// NewReplayChecker creates a ReplayChecker wrapping the given Redis client.
func NewReplayChecker(client *redis.Client) *ReplayChecker {
	return &ReplayChecker{client: client}
}

// IsDuplicate reports whether this exact entry has already been recorded.
func (r *ReplayChecker) IsDuplicate(ctx context.Context, username string, kind domain.AuthEventKind, ts time.Time) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(username, kind, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("replay check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this entry has been recorded (expires after replayTTL).
func (r *ReplayChecker) Mark(ctx context.Context, username string, kind domain.AuthEventKind, ts time.Time) error {
	return r.client.Set(ctx, r.key(username, kind, ts), "1", replayTTL).Err()
}

func (r *ReplayChecker) key(username string, kind domain.AuthEventKind, ts time.Time) string {
	return fmt.Sprintf("auth_replay:%s:%s:%d", username, kind, ts.Unix())
}
