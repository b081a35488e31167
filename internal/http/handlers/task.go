package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"web3_annotate/internal/domain"
	"web3_annotate/internal/logger"
	"web3_annotate/internal/repository"

	"github.com/gin-gonic/gin"
)

type OptionInput struct {
	ImageURL string `json:"image_url" binding:"required"`
}

type CreateTaskRequest struct {
	Title     string        `json:"title" binding:"required"`
	Amount    float64       `json:"amount" binding:"required,gt=0"`
	Signature string        `json:"signature" binding:"required"`
	Options   []OptionInput `json:"options" binding:"required,min=2,dive"`
}

// CreateTask persists a task with its option set atomically and returns the
// new task id.
func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you've sent the wrong inputs"})
		return
	}

	amount, err := domain.DecimalToMinorUnits(req.Amount)
	if errors.Is(err, domain.ErrAmountPrecision) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is finer than one minor unit"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount out of range"})
		return
	}

	imageURLs := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		imageURLs = append(imageURLs, o.ImageURL)
	}

	task := &domain.Task{
		OwnerID:   userID,
		Title:     req.Title,
		Amount:    amount,
		Signature: req.Signature,
	}

	ctx := c.Request.Context()
	id, err := h.TaskRepo.CreateWithOptions(ctx, task, imageURLs)
	if errors.Is(err, repository.ErrTooFewOptions) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you've sent the wrong inputs"})
		return
	}
	if err != nil {
		logger.Error("failed to create task", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	tasksCreated.Inc()
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GetTask returns the task's details plus per-option submission counts. Only
// the owner may read results; a missing task and someone else's task produce
// the same denial.
func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	ctx := c.Request.Context()
	task, result, err := h.Aggregation.ResultsForOwner(ctx, taskID, userID)
	if errors.Is(err, repository.ErrAccessDenied) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you dont have access to this task"})
		return
	}
	if err != nil {
		logger.Error("failed to aggregate task results", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":   task,
		"result": result,
	})
}
