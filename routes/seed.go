package routes

import (
	"net/http"
	"strconv"
	"time"

	"tagdo/tagdo/database"
	"tagdo/tagdo/services"

	"github.com/gin-gonic/gin"
)

func RegisterSeedRoutes(group *gin.RouterGroup, db *database.Database, seedService services.SeedServiceInterface) {
	group.POST("/seed", func(c *gin.Context) { SeedPreview(c, db, seedService) })
}

// SeedPreview loads the preview tasks. ?force=true seeds even when tasks exist.
func SeedPreview(c *gin.Context, db *database.Database, seedService services.SeedServiceInterface) {
	force := false
	if raw := c.Query("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "force must be a boolean"})
			return
		}
		force = parsed
	}

	tasks, err := seedService.SeedPreview(db, time.Now().UTC(), force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(tasks), "tasks": tasks})
}
