package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/chain"
	"github.com/dmitrijs2005/zkvault/internal/client/coordinator"
	"github.com/dmitrijs2005/zkvault/internal/client/coordinator/coordinatortest"
	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/client/repositories/jobs"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type score struct {
	Score int `json:"score"`
}

func newMockJobs(t *testing.T, conn chain.Connection, program solana.PublicKey, opts ...JobServiceOption) (JobService, *jobs.MemoryRepository) {
	t.Helper()
	repo := jobs.NewMemoryRepository()
	svc := NewJobService(NewRegistry(), repo, conn, program, nil, nil, opts...)
	require.NoError(t, svc.RegisterJobType(models.JobDefinition{Name: "score"}))
	return svc, repo
}

func TestJobService_UnregisteredTypeFailsFirst(t *testing.T) {
	conn := &recordingConn{}
	repo := jobs.NewMemoryRepository()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	svc := NewJobService(NewRegistry(), repo, conn, newProgramID(t), coordinator.New(srv.URL, 0), nil)

	// an invalid key proves the lookup happens before key handling
	_, err := svc.SubmitJob(context.Background(), SubmitJobParams{JobType: "nope", Owner: "o", Input: 1, Key: cryptox.Key([]byte("bad"))}, newWallet(t))
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Zero(t, conn.Calls())
	assert.Empty(t, srv.Submissions())
	assert.Empty(t, srv.Headers())
	list, err := repo.ListByOwner(context.Background(), "o")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJobService_MockLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, _ := newMockJobs(t, nil, solana.PublicKey{}, WithClock(func() time.Time { return now }))
	ctx := context.Background()
	seed := cryptox.Seed([]byte("job-seed"))

	res, err := svc.SubmitJob(ctx, SubmitJobParams{JobType: "score", Owner: "ownerA", Input: score{10}, Key: seed}, nil)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.False(t, res.Notified)
	assert.Len(t, res.JobID, 32)
	assert.Equal(t, cryptox.DeriveID(res.Commitment, "ownerA"), res.JobID)

	status, err := svc.GetJobStatus(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, status)

	var out score
	assert.ErrorIs(t, svc.FetchResult(ctx, res.JobID, seed, &out), common.ErrNotFound)

	require.NoError(t, svc.SetMockResult(ctx, res.JobID, score{99}, seed))

	status, err = svc.GetJobStatus(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)

	require.NoError(t, svc.FetchResult(ctx, res.JobID, seed, &out))
	assert.Equal(t, 99, out.Score)

	err = svc.FetchResult(ctx, res.JobID, cryptox.Seed([]byte("other")), &out)
	assert.ErrorIs(t, err, common.ErrCrypto)

	list, err := svc.ListJobs(ctx, "ownerA")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, now, list[0].CreatedAt)
	assert.Equal(t, "score", list[0].JobType)

	var input score
	require.NoError(t, cryptox.DecryptWith(list[0].Input, seed, &input))
	assert.Equal(t, 10, input.Score)
}

func TestJobService_MockUnknownJob(t *testing.T) {
	svc, _ := newMockJobs(t, nil, solana.PublicKey{})
	ctx := context.Background()

	_, err := svc.GetJobStatus(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	var out score
	assert.ErrorIs(t, svc.FetchResult(ctx, "missing", cryptox.Seed([]byte("s")), &out), common.ErrNotFound)
	assert.ErrorIs(t, svc.SetMockResult(ctx, "missing", score{1}, cryptox.Seed([]byte("s"))), common.ErrNotFound)
}

func TestJobService_SetMockResultRejectsBadKey(t *testing.T) {
	svc, _ := newMockJobs(t, nil, solana.PublicKey{})
	ctx := context.Background()

	res, err := svc.SubmitJob(ctx, SubmitJobParams{JobType: "score", Owner: "o", Input: score{1}, Key: cryptox.Seed([]byte("s"))}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetMockResult(ctx, res.JobID, score{2}, cryptox.Key(make([]byte, 5))), common.ErrCrypto)
	status, err := svc.GetJobStatus(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, status)
}

func TestJobService_SubmitOnChain(t *testing.T) {
	conn := &recordingConn{}
	program := newProgramID(t)
	svc, _ := newMockJobs(t, conn, program)
	wallet := newWallet(t)

	res, err := svc.SubmitJob(context.Background(), SubmitJobParams{JobType: "score", Owner: "ownerA", Input: score{3}, Key: cryptox.Seed([]byte("s"))}, wallet)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Signature)
	assert.True(t, res.Recorded)

	require.Len(t, conn.sent, 1)
	tx := conn.sent[0]
	require.NoError(t, tx.VerifySignatures())
	assert.True(t, tx.Message.AccountKeys[0].Equals(wallet.PublicKey()))

	var payload chain.JobPayload
	require.NoError(t, json.Unmarshal(tx.Message.Instructions[0].Data, &payload))
	assert.Equal(t, chain.JobPayload{Op: chain.OpSubmitJob, JobID: res.JobID, JobType: "score", Commitment: res.Commitment, Owner: "ownerA"}, payload)
}

func TestJobService_SubmitOnChainFailure(t *testing.T) {
	conn := &recordingConn{err: errUnavailable}
	svc, repo := newMockJobs(t, conn, newProgramID(t))

	_, err := svc.SubmitJob(context.Background(), SubmitJobParams{JobType: "score", Owner: "o", Input: score{3}, Key: cryptox.Seed([]byte("s"))}, newWallet(t))
	assert.ErrorIs(t, err, common.ErrRPC)

	list, err := repo.ListByOwner(context.Background(), "o")
	require.NoError(t, err)
	assert.Empty(t, list)
}

type hookCall struct {
	jobID string
	err   error
}

func newCoordinatorJobs(t *testing.T) (JobService, *coordinatortest.Server, *jobs.MemoryRepository, *[]hookCall) {
	t.Helper()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	var (
		mu    sync.Mutex
		calls []hookCall
	)
	hook := func(_ context.Context, jobID string, err error) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, hookCall{jobID: jobID, err: err})
	}

	repo := jobs.NewMemoryRepository()
	svc := NewJobService(NewRegistry(), repo, nil, solana.PublicKey{}, coordinator.New(srv.URL, 5*time.Second), nil, WithNotifyHook(hook))
	require.NoError(t, svc.RegisterJobType(models.JobDefinition{Name: "score"}))
	return svc, srv, repo, &calls
}

func TestJobService_CoordinatorLifecycle(t *testing.T) {
	svc, srv, repo, calls := newCoordinatorJobs(t)
	ctx := context.Background()
	seed := cryptox.Seed([]byte("seed"))

	res, err := svc.SubmitJob(ctx, SubmitJobParams{JobType: "score", Owner: "ownerA", Input: score{1}, Key: seed}, nil)
	require.NoError(t, err)
	assert.True(t, res.Notified)
	assert.NoError(t, res.NotifyErr)
	assert.False(t, res.Recorded)
	assert.Equal(t, []hookCall{{jobID: res.JobID}}, *calls)

	subs := srv.Submissions()
	require.Len(t, subs, 1)
	iv, ct, tag := coordinator.WireFields(res.Envelope)
	assert.Equal(t, coordinator.SubmitJobRequest{JobID: res.JobID, JobType: "score", Owner: "ownerA", IV: iv, Tag: tag, Ciphertext: ct}, subs[0])

	list, err := repo.ListByOwner(ctx, "ownerA")
	require.NoError(t, err)
	assert.Empty(t, list)

	status, err := svc.GetJobStatus(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, status)

	var out score
	assert.ErrorIs(t, svc.FetchResult(ctx, res.JobID, seed, &out), common.ErrNotFound)

	key, err := cryptox.NormalizeKey(seed)
	require.NoError(t, err)
	resultEnv, err := cryptox.Encrypt(score{77}, key)
	require.NoError(t, err)
	riv, rct, rtag := coordinator.WireFields(resultEnv)
	srv.SetResult(res.JobID, coordinatortest.Result{IV: riv, Ciphertext: rct, Tag: rtag})

	status, err = svc.GetJobStatus(ctx, res.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)

	require.NoError(t, svc.FetchResult(ctx, res.JobID, seed, &out))
	assert.Equal(t, 77, out.Score)
}

func TestJobService_NotificationFailureIsSwallowed(t *testing.T) {
	svc, srv, _, calls := newCoordinatorJobs(t)
	srv.Fail("/submit-job", http.StatusServiceUnavailable)

	res, err := svc.SubmitJob(context.Background(), SubmitJobParams{JobType: "score", Owner: "o", Input: score{1}, Key: cryptox.Seed([]byte("s"))}, nil)
	require.NoError(t, err)
	assert.False(t, res.Notified)
	require.Error(t, res.NotifyErr)

	var se *coordinator.StatusError
	require.ErrorAs(t, res.NotifyErr, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)

	require.Len(t, *calls, 1)
	assert.Equal(t, res.JobID, (*calls)[0].jobID)
	assert.Equal(t, res.NotifyErr, (*calls)[0].err)
}

func TestJobService_StatusFallsBackToLocalRecords(t *testing.T) {
	svc, srv, repo, _ := newCoordinatorJobs(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.JobRecord{ID: "local-1", Owner: "o", JobType: "score", Status: models.JobStatusRunning, CreatedAt: time.Now()}))
	srv.Fail("/job-status", http.StatusBadGateway)

	status, err := svc.GetJobStatus(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, status)

	_, err = svc.GetJobStatus(ctx, "nowhere")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestJobService_FetchResultTransportError(t *testing.T) {
	svc, srv, _, _ := newCoordinatorJobs(t)
	srv.Close()

	var out score
	err := svc.FetchResult(context.Background(), "job", cryptox.Seed([]byte("s")), &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}
