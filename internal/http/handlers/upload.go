package handlers

import (
	"errors"
	"net/http"

	"web3_annotate/internal/logger"
	"web3_annotate/internal/storage"

	"github.com/gin-gonic/gin"
)

// PresignedUploadURL mints a POST policy upload under the caller's key
// namespace: the form URL plus the fields the client must submit with it.
// The policy caps the upload size. The returned key is what the client
// stores as image_url.
func (h *Handler) PresignedUploadURL(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	url, fields, key, err := h.Uploader.UploadPostURL(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
		return
	}
	if err != nil {
		logger.Error("failed to presign upload", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pre_signed_url": url,
		"fields":         fields,
		"key":            key,
	})
}

// PresignedUploadURLPut mints a plain presigned PUT URL, for clients that
// cannot build a multipart POST form.
func (h *Handler) PresignedUploadURLPut(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	url, key, err := h.Uploader.UploadURL(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
		return
	}
	if err != nil {
		logger.Error("failed to presign upload", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pre_signed_url": url,
		"key":            key,
	})
}

// PresignedDownloadURL mints a GET URL for an object the caller uploaded.
func (h *Handler) PresignedDownloadURL(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	key := c.Query("key")
	if key == "" || !h.Uploader.KeyOwnedBy(key, userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
		return
	}

	url, err := h.Uploader.DownloadURL(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
		return
	}
	if err != nil {
		logger.Error("failed to presign download", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
