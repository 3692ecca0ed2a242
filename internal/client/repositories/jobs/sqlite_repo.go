package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
)

// DBTX is the subset of database/sql the repository needs; both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLiteRepository struct {
	db DBTX
}

func NewSQLiteRepository(db DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const jobColumns = `id, owner, job_type, commitment, status, created_at, input, result, signature`

func encodeEnvelope(env *cryptox.Envelope) ([]byte, error) {
	if env == nil {
		return nil, nil
	}
	return json.Marshal(env)
}

func decodeEnvelope(b []byte) (*cryptox.Envelope, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var env cryptox.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, job *models.JobRecord) error {
	input, err := encodeEnvelope(job.Input)
	if err != nil {
		return fmt.Errorf("encode job input: %w", err)
	}
	result, err := encodeEnvelope(job.Result)
	if err != nil {
		return fmt.Errorf("encode job result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			job_type = excluded.job_type,
			commitment = excluded.commitment,
			status = excluded.status,
			created_at = excluded.created_at,
			input = excluded.input,
			result = excluded.result,
			signature = excluded.signature
	`, job.ID, job.Owner, job.JobType, job.Commitment, string(job.Status),
		job.CreatedAt.UnixNano(), input, result, job.Signature)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.JobRecord, error) {
	var (
		job       models.JobRecord
		status    string
		createdAt int64
		input     []byte
		result    []byte
	)
	if err := row.Scan(&job.ID, &job.Owner, &job.JobType, &job.Commitment, &status, &createdAt, &input, &result, &job.Signature); err != nil {
		return nil, err
	}
	job.Status = models.JobStatus(status)
	job.CreatedAt = time.Unix(0, createdAt).UTC()

	var err error
	if job.Input, err = decodeEnvelope(input); err != nil {
		return nil, fmt.Errorf("decode job input: %w", err)
	}
	if job.Result, err = decodeEnvelope(result); err != nil {
		return nil, fmt.Errorf("decode job result: %w", err)
	}
	return &job, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.JobRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return job, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.JobStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *SQLiteRepository) SetResult(ctx context.Context, id string, result *cryptox.Envelope) error {
	b, err := encodeEnvelope(result)
	if err != nil {
		return fmt.Errorf("encode job result: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET result = ?, status = ? WHERE id = ?`, b, string(models.JobStatusCompleted), id)
	if err != nil {
		return fmt.Errorf("failed to set result of job %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]*models.JobRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE owner = ? ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	result := make([]*models.JobRecord, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}
	return nil
}
