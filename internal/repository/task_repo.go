package repository

import (
	"context"
	"errors"

	"web3_annotate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccessDenied covers both a nonexistent task and a task owned by someone
// else; callers must not be able to tell the two apart.
var ErrAccessDenied = errors.New("task not accessible")

// ErrTooFewOptions rejects a task with fewer than the minimum option set.
var ErrTooFewOptions = errors.New("task requires at least 2 options")

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateWithOptions persists the task and its full option set in a single
// transaction. A reader never observes the task without its options; any
// failure rolls the whole operation back.
func (r *TaskRepository) CreateWithOptions(ctx context.Context, t *domain.Task, imageURLs []string) (int64, error) {
	if len(imageURLs) < domain.MinOptions {
		return 0, ErrTooFewOptions
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, amount, signature)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.OwnerID, t.Title, t.Amount, t.Signature,
	).Scan(&t.ID, &t.CreatedAt); err != nil {
		return 0, err
	}

	for _, imageURL := range imageURLs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO options (task_id, image_url) VALUES ($1, $2)`,
			t.ID, imageURL,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return t.ID, nil
}

// GetForOwner looks the task up keyed on (id, owner). A missing task and a
// task owned by another user both return ErrAccessDenied.
func (r *TaskRepository) GetForOwner(ctx context.Context, taskID, requesterID int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, amount, signature, created_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		taskID, requesterID,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Amount, &t.Signature, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListOptions returns the task's option set in creation order.
func (r *TaskRepository) ListOptions(ctx context.Context, taskID int64) ([]*domain.Option, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, image_url FROM options WHERE task_id = $1 ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Option
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.TaskID, &o.ImageURL); err != nil {
			return nil, err
		}
		res = append(res, &o)
	}
	return res, rows.Err()
}

// CountRows reports table sizes for tasks and options, used to verify that a
// rejected create left nothing behind.
func (r *TaskRepository) CountRows(ctx context.Context) (tasks int64, options int64, err error) {
	if err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&tasks); err != nil {
		return
	}
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM options`).Scan(&options)
	return
}
