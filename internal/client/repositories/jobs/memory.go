package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.JobRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{jobs: make(map[string]models.JobRecord)}
}

func (r *MemoryRepository) Save(_ context.Context, job *models.JobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	return &job, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	job.Status = status
	r.jobs[id] = job
	return nil
}

func (r *MemoryRepository) SetResult(_ context.Context, id string, result *cryptox.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	job.Result = result
	job.Status = models.JobStatusCompleted
	r.jobs[id] = job
	return nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]*models.JobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.JobRecord, 0)
	for _, job := range r.jobs {
		if job.Owner == owner {
			j := job
			result = append(result, &j)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.jobs)
	return nil
}
