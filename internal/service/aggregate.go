package service

import (
	"context"

	"web3_annotate/internal/domain"
	"web3_annotate/internal/logger"
	"web3_annotate/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var orphanSubmissions = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "aggregation_orphan_submissions_total",
		Help: "Submissions referencing an option outside their task's option set",
	},
)

func init() {
	prometheus.MustRegister(orphanSubmissions)
}

// AggregationService computes per-option submission counts for a task,
// readable only by the task's owner.
type AggregationService struct {
	tasks       *repository.TaskRepository
	submissions *repository.SubmissionRepository
}

func NewAggregationService(db *pgxpool.Pool) *AggregationService {
	return &AggregationService{
		tasks:       repository.NewTaskRepository(db),
		submissions: repository.NewSubmissionRepository(db),
	}
}

// ResultsForOwner returns the task, its options and the per-option tally.
// Non-owners get repository.ErrAccessDenied, indistinguishable from a task
// that does not exist. The tally is a snapshot: submissions arriving during
// the read may or may not be counted.
func (s *AggregationService) ResultsForOwner(ctx context.Context, taskID, requesterID int64) (*domain.Task, map[int64]*domain.OptionResult, error) {
	task, err := s.tasks.GetForOwner(ctx, taskID, requesterID)
	if err != nil {
		return nil, nil, err
	}

	options, err := s.tasks.ListOptions(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	subs, err := s.submissions.ListByTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	return task, tally(taskID, options, subs), nil
}

// tally counts submissions per option in two phases: seed a zero-count entry
// for every option, then fold submissions in. The result's key set always
// equals the task's option id set, even with zero submissions. A submission
// whose option is outside the set is skipped and reported; the write path's
// referential check makes that unreachable.
func tally(taskID int64, options []*domain.Option, subs []*domain.Submission) map[int64]*domain.OptionResult {
	result := make(map[int64]*domain.OptionResult, len(options))
	for _, o := range options {
		result[o.ID] = &domain.OptionResult{Option: domain.OptionView{ImageURL: o.ImageURL}}
	}

	for _, sub := range subs {
		entry, ok := result[sub.OptionID]
		if !ok {
			orphanSubmissions.Inc()
			logger.Warn("skipping orphaned submission",
				"task_id", taskID,
				"submission_id", sub.ID,
				"option_id", sub.OptionID,
			)
			continue
		}
		entry.Count++
	}
	return result
}
