package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const planKeyPrefix = "plan:"

// RedisPlanStore keeps solved plans in Redis as JSON with a TTL.
type RedisPlanStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPlanStore parses a redis:// URL and verifies the connection.
func NewRedisPlanStore(ctx context.Context, url string, ttl time.Duration) (*RedisPlanStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("new redis plan store: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("new redis plan store: ping: %w", err)
	}
	return &RedisPlanStore{client: client, ttl: ttl}, nil
}

func (s *RedisPlanStore) SavePlan(ctx context.Context, plan ports.StoredPlan) (err error) {
	defer obs.Time(ctx, "plans.redis.SavePlan")(&err)

	if plan.ID == "" {
		return errors.New("save plan: id must be non-empty")
	}
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: marshal: %w", err)
	}
	if err := s.client.Set(ctx, planKeyPrefix+plan.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save plan %q: %w", plan.ID, err)
	}
	return nil
}

func (s *RedisPlanStore) GetPlan(ctx context.Context, id string) (_ ports.StoredPlan, err error) {
	defer obs.Time(ctx, "plans.redis.GetPlan")(&err)

	payload, err := s.client.Get(ctx, planKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.StoredPlan{}, fmt.Errorf("get plan %q: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return ports.StoredPlan{}, fmt.Errorf("get plan %q: %w", id, err)
	}

	var plan ports.StoredPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return ports.StoredPlan{}, fmt.Errorf("get plan %q: unmarshal: %w", id, err)
	}
	return plan, nil
}

func (s *RedisPlanStore) Close() error { return s.client.Close() }

// MemoryPlanStore is the in-process fallback used when Redis is not
// configured. Plans never expire.
type MemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]ports.StoredPlan
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{plans: make(map[string]ports.StoredPlan)}
}

func (s *MemoryPlanStore) SavePlan(_ context.Context, plan ports.StoredPlan) error {
	if plan.ID == "" {
		return errors.New("save plan: id must be non-empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = plan
	return nil
}

func (s *MemoryPlanStore) GetPlan(_ context.Context, id string) (ports.StoredPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[id]
	if !ok {
		return ports.StoredPlan{}, fmt.Errorf("get plan %q: %w", id, ports.ErrPlanNotFound)
	}
	return plan, nil
}
