package handlers

import (
	"web3_annotate/internal/repository"
	"web3_annotate/internal/service"
	"web3_annotate/internal/storage"
	"web3_annotate/internal/wallet"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB             *pgxpool.Pool
	UserRepo       *repository.UserRepository
	TaskRepo       *repository.TaskRepository
	SubmissionRepo *repository.SubmissionRepository
	Aggregation    *service.AggregationService
	Verifier       wallet.Verifier
	Uploader       *storage.Uploader
}

func NewHandler(db *pgxpool.Pool, verifier wallet.Verifier, uploader *storage.Uploader) *Handler {
	return &Handler{
		DB:             db,
		UserRepo:       repository.NewUserRepository(db),
		TaskRepo:       repository.NewTaskRepository(db),
		SubmissionRepo: repository.NewSubmissionRepository(db),
		Aggregation:    service.NewAggregationService(db),
		Verifier:       verifier,
		Uploader:       uploader,
	}
}

// getUserID extracts the user_id placed in the gin context by the JWT
// middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
