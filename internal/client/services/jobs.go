package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/coordinator"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/client/repositories/jobs"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/dmitrijs2005/zkvault/internal/logging"
	"github.com/gagliardetto/solana-go"
)

// JobCoordinator is the part of the coordinator client JobService uses.
type JobCoordinator interface {
	SubmitJob(ctx context.Context, req coordinator.SubmitJobRequest) error
	JobStatus(ctx context.Context, jobID string) (models.JobStatus, error)
	JobResult(ctx context.Context, jobID string) (*cryptox.Envelope, error)
}

// NotifyHook observes the outcome of the best-effort coordinator
// notification made by SubmitJob. err is nil on success.
type NotifyHook func(ctx context.Context, jobID string, err error)

// JobService manages confidential jobs.
//
// Contract:
//   - RegisterJobType: register job metadata (last write wins).
//   - SubmitJob: encrypt input, optionally send a chain instruction, then
//     notify the coordinator (best effort) or record the job locally.
//   - GetJobStatus: coordinator first, local records as fallback.
//   - FetchResult: fetch and decrypt the job result.
//   - SetMockResult: complete a locally recorded job (tests, local tooling).
//   - ListJobs: locally recorded jobs of an owner.
type JobService interface {
	RegisterJobType(def models.JobDefinition) error
	SubmitJob(ctx context.Context, params SubmitJobParams, wallet chain.WalletAdapter) (*SubmitJobResult, error)
	GetJobStatus(ctx context.Context, jobID string) (models.JobStatus, error)
	FetchResult(ctx context.Context, jobID string, km cryptox.KeyMaterial, v any) error
	SetMockResult(ctx context.Context, jobID string, value any, km cryptox.KeyMaterial) error
	ListJobs(ctx context.Context, owner string) ([]*models.JobRecord, error)
}

type SubmitJobParams struct {
	JobType string
	Owner   string
	Input   any
	Key     cryptox.KeyMaterial
}

// SubmitJobResult describes what SubmitJob did.
//
// The chain and coordinator paths are independent: a job may be on chain
// with no coordinator record, or the other way round.
type SubmitJobResult struct {
	JobID      string
	Commitment string
	Envelope   *cryptox.Envelope
	// Signature is set when a chain instruction was sent.
	Signature string
	// Notified reports a successful coordinator notification.
	Notified bool
	// NotifyErr holds the swallowed coordinator error, if any.
	NotifyErr error
	// Recorded reports that the job went to the local store.
	Recorded bool
}

type jobService struct {
	registry    *Registry
	repo        jobs.Repository
	conn        chain.Connection
	programID   solana.PublicKey
	coordinator JobCoordinator
	notifyHook  NotifyHook
	logger      logging.Logger
	now         func() time.Time
}

// JobServiceOption customizes a JobService.
type JobServiceOption func(*jobService)

func WithNotifyHook(h NotifyHook) JobServiceOption {
	return func(s *jobService) { s.notifyHook = h }
}

func WithClock(now func() time.Time) JobServiceOption {
	return func(s *jobService) { s.now = now }
}

// NewJobService builds a JobService. A zero programID disables chain
// instructions; a nil coord selects the local (mock) path backed by repo.
func NewJobService(registry *Registry, repo jobs.Repository, conn chain.Connection, programID solana.PublicKey, coord JobCoordinator, logger logging.Logger, opts ...JobServiceOption) JobService {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &jobService{
		registry:    registry,
		repo:        repo,
		conn:        conn,
		programID:   programID,
		coordinator: coord,
		logger:      logger.With("component", "jobs"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *jobService) RegisterJobType(def models.JobDefinition) error {
	return s.registry.RegisterJobType(def)
}

func (s *jobService) SubmitJob(ctx context.Context, params SubmitJobParams, wallet chain.WalletAdapter) (*SubmitJobResult, error) {
	if _, ok := s.registry.JobType(params.JobType); !ok {
		return nil, fmt.Errorf("job type %q: %w", params.JobType, common.ErrNotFound)
	}

	key, err := cryptox.NormalizeKey(params.Key)
	if err != nil {
		return nil, err
	}

	env, err := cryptox.Encrypt(params.Input, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	commitment := env.Commitment()
	res := &SubmitJobResult{
		JobID:      cryptox.DeriveID(commitment, params.Owner),
		Commitment: commitment,
		Envelope:   env,
	}
	logger := s.logger.With("job_id", res.JobID, "job_type", params.JobType)

	if !s.programID.IsZero() && wallet != nil {
		ix, err := chain.NewPayloadInstruction(s.programID, wallet.PublicKey(), chain.JobPayload{
			Op:         chain.OpSubmitJob,
			JobID:      res.JobID,
			JobType:    params.JobType,
			Commitment: commitment,
			Owner:      params.Owner,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrRPC, err)
		}
		sig, err := chain.BuildAndSend(ctx, s.conn, wallet, []solana.Instruction{ix})
		if err != nil {
			return nil, err
		}
		res.Signature = sig.String()
	}

	if s.coordinator != nil {
		iv, ct, tag := coordinator.WireFields(env)
		err := s.coordinator.SubmitJob(ctx, coordinator.SubmitJobRequest{
			JobID:      res.JobID,
			JobType:    params.JobType,
			Owner:      params.Owner,
			IV:         iv,
			Tag:        tag,
			Ciphertext: ct,
		})
		// best effort: the caller never sees this error
		res.Notified = err == nil
		res.NotifyErr = err
		if err != nil {
			logger.Warn(ctx, "coordinator notification failed", "error", err)
		}
		if s.notifyHook != nil {
			s.notifyHook(ctx, res.JobID, err)
		}
	} else {
		record := &models.JobRecord{
			ID:         res.JobID,
			Owner:      params.Owner,
			JobType:    params.JobType,
			Commitment: commitment,
			Status:     models.JobStatusPending,
			CreatedAt:  s.now().UTC(),
			Input:      env,
			Signature:  res.Signature,
		}
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("saving error: %w", err)
		}
		res.Recorded = true
	}

	logger.Info(ctx, "job submitted", "on_chain", res.Signature != "", "notified", res.Notified, "recorded", res.Recorded)
	return res, nil
}

func (s *jobService) GetJobStatus(ctx context.Context, jobID string) (models.JobStatus, error) {
	if s.coordinator != nil {
		status, err := s.coordinator.JobStatus(ctx, jobID)
		if err == nil {
			return status, nil
		}
		s.logger.Debug(ctx, "coordinator status lookup failed, using local records", "job_id", jobID, "error", err)
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// FetchResult retrieves and decrypts a job result into v.
//
// Both the coordinator and the local path resolve km with
// cryptox.NormalizeKey; Seed material therefore yields DeriveKey(seed).
func (s *jobService) FetchResult(ctx context.Context, jobID string, km cryptox.KeyMaterial, v any) error {
	var env *cryptox.Envelope

	if s.coordinator != nil {
		remote, err := s.coordinator.JobResult(ctx, jobID)
		if err != nil {
			var se *coordinator.StatusError
			if errors.As(err, &se) {
				return fmt.Errorf("result of job %s: %w: %w", jobID, common.ErrNotFound, err)
			}
			return fmt.Errorf("fetch result of job %s: %w", jobID, err)
		}
		env = remote
	} else {
		job, err := s.repo.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Result == nil {
			return fmt.Errorf("result of job %s: %w", jobID, common.ErrNotFound)
		}
		env = job.Result
	}

	return cryptox.DecryptWith(env, km, v)
}

func (s *jobService) SetMockResult(ctx context.Context, jobID string, value any, km cryptox.KeyMaterial) error {
	key, err := cryptox.NormalizeKey(km)
	if err != nil {
		return err
	}
	env, err := cryptox.Encrypt(value, key)
	if err != nil {
		return fmt.Errorf("encryption error: %w", err)
	}
	if err := s.repo.SetResult(ctx, jobID, env); err != nil {
		return err
	}
	s.logger.Debug(ctx, "mock result set", "job_id", jobID)
	return nil
}

func (s *jobService) ListJobs(ctx context.Context, owner string) ([]*models.JobRecord, error) {
	return s.repo.ListByOwner(ctx, owner)
}
