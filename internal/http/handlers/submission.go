package handlers

import (
	"errors"
	"net/http"

	"web3_annotate/internal/domain"
	"web3_annotate/internal/logger"
	"web3_annotate/internal/repository"

	"github.com/gin-gonic/gin"
)

type CreateSubmissionRequest struct {
	TaskID   int64 `json:"task_id" binding:"required"`
	OptionID int64 `json:"option_id" binding:"required"`
}

// CreateSubmission records a worker's choice of one option for a task.
func (h *Handler) CreateSubmission(c *gin.Context) {
	workerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateSubmissionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you've sent the wrong inputs"})
		return
	}

	sub := &domain.Submission{
		TaskID:   req.TaskID,
		OptionID: req.OptionID,
		WorkerID: workerID,
	}

	ctx := c.Request.Context()
	err := h.SubmissionRepo.Create(ctx, sub)
	if errors.Is(err, repository.ErrInvalidOption) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option does not belong to task"})
		return
	}
	if err != nil {
		logger.Error("failed to record submission", "task_id", req.TaskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	submissionsRecorded.Inc()
	c.JSON(http.StatusOK, gin.H{"id": sub.ID})
}
