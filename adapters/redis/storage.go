package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"progresskit/core"
	"progresskit/engine"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr" env:"PROGRESSKIT_REDIS_ADDR"`
	Password     string        `json:"-" env:"PROGRESSKIT_REDIS_PASSWORD"`
	DB           int           `json:"db" env:"PROGRESSKIT_REDIS_DB"`
	PoolSize     int           `json:"pool_size" env:"PROGRESSKIT_REDIS_POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" env:"PROGRESSKIT_REDIS_MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"PROGRESSKIT_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"PROGRESSKIT_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" env:"PROGRESSKIT_REDIS_WRITE_TIMEOUT"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements engine.Store on Redis.
// Data structure:
// - learner:{id}:snapshot -> JSON blob of the full ProgressionSnapshot
// - learners              -> set of known learner ids (for enumeration)
// The snapshot is written as one value so a save is atomic by construction.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed store with the provided configuration.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func snapshotKey(learner core.LearnerID) string {
	return fmt.Sprintf("learner:%s:snapshot", learner)
}

const learnerIndexKey = "learners"

func (s *Store) Load(ctx context.Context, learner core.LearnerID) (core.ProgressionSnapshot, bool, error) {
	data, err := s.client.Get(ctx, snapshotKey(learner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.ProgressionSnapshot{}, false, nil
	}
	if err != nil {
		return core.ProgressionSnapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap core.ProgressionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return core.ProgressionSnapshot{}, false, fmt.Errorf("%w: learner %s: %v", engine.ErrCorruptSnapshot, learner, err)
	}
	if snap.ConceptMastery == nil {
		snap.ConceptMastery = map[string]int64{}
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(learner), data, 0)
	pipe.SAdd(ctx, learnerIndexKey, string(learner))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Learners returns all learner ids that have a persisted snapshot.
func (s *Store) Learners(ctx context.Context) ([]core.LearnerID, error) {
	members, err := s.client.SMembers(ctx, learnerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}
	out := make([]core.LearnerID, 0, len(members))
	for _, m := range members {
		out = append(out, core.LearnerID(m))
	}
	return out, nil
}

var _ engine.Store = (*Store)(nil)
