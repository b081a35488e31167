package handlers

import (
	"net/http"
	"strconv"
	"time"

	"web3_annotate/internal/logger"
	"web3_annotate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const resultsPushInterval = 3 * time.Second

// TaskResultsWS streams the task's aggregated results to its owner. The
// client authenticates with ?token= because browsers cannot set headers on a
// websocket dial. Access is checked before the upgrade; non-owners get the
// same denial as a nonexistent task.
func (h *Handler) TaskResultsWS(c *gin.Context) {
	userID, err := service.ParseJWT(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if _, err := h.TaskRepo.GetForOwner(c.Request.Context(), taskID, userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "you dont have access to this task"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(resultsPushInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		_, result, err := h.Aggregation.ResultsForOwner(ctx, taskID, userID)
		if err != nil {
			logger.Error("ws aggregation failed", "task_id", taskID, "error", err)
			return
		}
		if err := conn.WriteJSON(gin.H{"task_id": taskID, "result": result}); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
