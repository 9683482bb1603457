package handlers

import (
	"errors"
	"net/http"

	"examhub/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Storage failures stay
// opaque to callers.
func respondError(c *gin.Context, err error) {
	var importErr *apperrors.ImportValidationError
	switch {
	case errors.As(err, &importErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  importErr.Error(),
			"errors": importErr.Errors,
		})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}
