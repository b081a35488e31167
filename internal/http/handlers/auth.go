package handlers

import (
	"net/http"

	"web3_annotate/internal/logger"
	"web3_annotate/internal/service"
	"web3_annotate/internal/wallet"

	"github.com/gin-gonic/gin"
)

type SignInRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
	Signature string `json:"signature"`
}

// SignIn proves wallet ownership and returns a bearer token. The user row is
// created lazily on first sign-in for an address.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Verifier.Verify([]byte(wallet.SignInMessage), req.PublicKey, req.Signature); err != nil {
		logger.Warn("sign-in proof rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect signature"})
		return
	}

	ctx := c.Request.Context()
	userID, err := h.UserRepo.Resolve(ctx, req.PublicKey)
	if err != nil {
		logger.Error("failed to resolve user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := service.GenerateJWT(userID)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
