package catalogimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Status is the lifecycle state of an import job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrJobNotFound is returned for unknown or expired job ids.
var ErrJobNotFound = fmt.Errorf("catalogimport: job %w", httpx.ErrNotFound)

// Progress is the externally visible state of an import job.
type Progress struct {
	JobID     string    `json:"jobId"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Created   int       `json:"created"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProgressStore persists job progress.
type ProgressStore interface {
	Save(ctx context.Context, p Progress) error
	Load(ctx context.Context, jobID string) (Progress, error)
}

// ProgressTTL bounds how long finished job states stay readable.
const ProgressTTL = 24 * time.Hour

// RedisProgress keeps job progress as JSON documents in Redis.
type RedisProgress struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProgress constructs a Redis progress store.
func NewRedisProgress(client *redis.Client) *RedisProgress {
	return &RedisProgress{client: client, ttl: ProgressTTL}
}

func progressKey(jobID string) string {
	return "import:" + jobID
}

// Save overwrites the job state.
func (s *RedisProgress) Save(ctx context.Context, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, progressKey(p.JobID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("catalogimport: save progress: %w", err)
	}
	return nil
}

// Load returns the job state.
func (s *RedisProgress) Load(ctx context.Context, jobID string) (Progress, error) {
	data, err := s.client.Get(ctx, progressKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Progress{}, ErrJobNotFound
	}
	if err != nil {
		return Progress{}, fmt.Errorf("catalogimport: load progress: %w", err)
	}
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return Progress{}, fmt.Errorf("catalogimport: decode progress: %w", err)
	}
	return p, nil
}
