package routes

import (
	"errors"
	"net/http"

	"tagdo/tagdo/services"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes. Unexpected
// errors are logged and reported as ErrInternal.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.ErrInternal.Error()})
	}
}
