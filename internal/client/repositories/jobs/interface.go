package jobs

import (
	"context"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
)

// Repository describes storage of mock job records.
type Repository interface {
	// Save inserts the record or overwrites one with the same id.
	Save(ctx context.Context, job *models.JobRecord) error

	// GetByID returns common.ErrNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (*models.JobRecord, error)

	// UpdateStatus changes the status of an existing record.
	UpdateStatus(ctx context.Context, id string, status models.JobStatus) error

	// SetResult attaches a result envelope and marks the job COMPLETED.
	SetResult(ctx context.Context, id string, result *cryptox.Envelope) error

	// ListByOwner returns the owner's jobs, oldest first.
	ListByOwner(ctx context.Context, owner string) ([]*models.JobRecord, error)

	// Clear removes every record.
	Clear(ctx context.Context) error
}
