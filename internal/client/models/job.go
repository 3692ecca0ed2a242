package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
)

// JobStatus is the lifecycle state of a confidential job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is expected.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobDefinition is registered job-type metadata. Name is the registry key.
type JobDefinition struct {
	Name         string  `json:"name"`
	Version      string  `json:"version,omitempty"`
	Description  string  `json:"description,omitempty"`
	InputSchema  *Schema `json:"inputSchema,omitempty"`
	OutputSchema *Schema `json:"outputSchema,omitempty"`
}

func (d JobDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: job type name is required", common.ErrSchema)
	}
	return nil
}

// JobRecord tracks one job submitted on the mock path.
type JobRecord struct {
	ID         string
	Owner      string
	JobType    string
	Commitment string
	Status     JobStatus
	CreatedAt  time.Time
	// Input is the encrypted job input as submitted.
	Input *cryptox.Envelope
	// Result is set once the job completes.
	Result *cryptox.Envelope
	// Signature of the on-chain submission, if any.
	Signature string
}
