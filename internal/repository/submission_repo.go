package repository

import (
	"context"
	"errors"

	"web3_annotate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidOption rejects a submission whose option does not belong to the
// submitted task.
var ErrInvalidOption = errors.New("option does not belong to task")

type SubmissionRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create appends a submission. The insert is guarded by an EXISTS check so a
// cross-task option reference can never be persisted. Submissions are
// append-only; no update or delete exists.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO submissions (task_id, option_id, worker_id)
		 SELECT $1, $2, $3
		 WHERE EXISTS (SELECT 1 FROM options WHERE id = $2 AND task_id = $1)
		 RETURNING id, created_at`,
		s.TaskID, s.OptionID, s.WorkerID,
	).Scan(&s.ID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvalidOption
	}
	return err
}

// ListByTask returns every submission recorded for the task.
func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.Submission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, option_id, worker_id, created_at
		 FROM submissions
		 WHERE task_id = $1
		 ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.TaskID, &s.OptionID, &s.WorkerID, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}
