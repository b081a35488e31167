package http

import (
	"web3_annotate/internal/config"
	"web3_annotate/internal/http/handlers"
	"web3_annotate/internal/http/middleware"
	"web3_annotate/internal/storage"
	"web3_annotate/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, verifier wallet.Verifier, uploader *storage.Uploader, version string) {
	h := handlers.NewHandler(db, verifier, uploader)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Wallet sign-in
	v1.POST("/signin", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.SignIn)

	// User profile
	v1.GET("/me", middleware.JWT(), h.Me)

	// Presigned object-storage URLs
	v1.GET("/presigned-url", middleware.JWT(), h.PresignedUploadURL)
	v1.GET("/presigned-url/put", middleware.JWT(), h.PresignedUploadURLPut)
	v1.GET("/presigned-url/download", middleware.JWT(), h.PresignedDownloadURL)

	// Tasks
	v1.POST("/tasks", middleware.JWT(), h.CreateTask)
	v1.GET("/tasks/:id", middleware.JWT(), h.GetTask)

	// Worker submissions
	v1.POST("/submissions", middleware.JWT(), h.CreateSubmission)

	// Live results stream for task owners
	r.GET("/ws/tasks/:id", h.TaskResultsWS)
}
