package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "chromabiz:quota:"
	redisDialTimeout = 2 * time.Second

	fieldGenerations = "generations"
	fieldRevisions   = "revisions"
)

// RedisStore keeps quota state in a Redis hash per client with a TTL equal
// to the window, so expiry replaces both the lazy reset and the sweep.
// Intended for multi-instance deployments; the memory store remains the
// default.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	limits Limits
}

// NewRedisStore connects to Redis and verifies the connection before
// returning the store.
func NewRedisStore(addr, password string, db int, limits Limits, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{
		client: client,
		logger: logger.With("component", "quota_redis"),
		limits: limits,
	}, nil
}

// Check implements Store. The counter decrement uses HIncrBy with an
// underflow restore, which keeps concurrent consumers from pushing a
// counter past zero without needing a transaction.
func (s *RedisStore) Check(ctx context.Context, clientID string, action Action) (bool, int, error) {
	key := redisKeyPrefix + clientID

	if err := s.ensure(ctx, key); err != nil {
		return false, 0, err
	}

	field := fieldGenerations
	if action == ActionRevision {
		field = fieldRevisions
	}

	remaining, err := s.client.HIncrBy(ctx, key, field, -1).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to decrement quota counter: %w", err)
	}
	if remaining < 0 {
		if err := s.client.HIncrBy(ctx, key, field, 1).Err(); err != nil {
			s.logger.WarnContext(ctx, "Failed to restore quota counter after underflow", "client_id", clientID, "error", err)
		}
		return false, 0, nil
	}
	return true, int(remaining), nil
}

// Status implements Store. An absent or expired key reports full caps with
// a deadline one window from now, mirroring the memory store's
// as-if-reset view.
func (s *RedisStore) Status(ctx context.Context, clientID string) (Status, error) {
	key := redisKeyPrefix + clientID

	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Status{}, fmt.Errorf("failed to read quota state: %w", err)
	}
	if len(values) == 0 {
		return Status{
			GenerationsRemaining: s.limits.DailyGenerations,
			RevisionsRemaining:   s.limits.DailyRevisions,
			ResetTime:            time.Now().UTC().Add(s.limits.Window),
		}, nil
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = s.limits.Window
	}

	return Status{
		GenerationsRemaining: parseCounter(values[fieldGenerations]),
		RevisionsRemaining:   parseCounter(values[fieldRevisions]),
		ResetTime:            time.Now().UTC().Add(ttl),
	}, nil
}

// SweepExpired implements Store. Redis key TTLs already evict stale
// entries, so there is nothing to do.
func (s *RedisStore) SweepExpired(context.Context) (int, error) { return 0, nil }

// Close implements Store.
func (s *RedisStore) Close() error { return s.client.Close() }

// ensure initializes the client's hash at full caps if it does not exist
// yet. HSetNX keeps concurrent initializers from clobbering each other;
// the NX expiry pins the reset deadline to the first initialization.
func (s *RedisStore) ensure(ctx context.Context, key string) error {
	created, err := s.client.HSetNX(ctx, key, fieldGenerations, s.limits.DailyGenerations).Result()
	if err != nil {
		return fmt.Errorf("failed to initialize quota entry: %w", err)
	}
	if err := s.client.HSetNX(ctx, key, fieldRevisions, s.limits.DailyRevisions).Err(); err != nil {
		return fmt.Errorf("failed to initialize quota entry: %w", err)
	}
	if created {
		if err := s.client.ExpireNX(ctx, key, s.limits.Window).Err(); err != nil {
			s.logger.WarnContext(ctx, "Failed to set quota window expiry", "key", key, "error", err)
		}
	}
	return nil
}

func parseCounter(raw string) int {
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil || n < 0 {
		return 0
	}
	return n
}
