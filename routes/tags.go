package routes

import (
	"net/http"

	"tagdo/tagdo/database"
	"tagdo/tagdo/services"

	"github.com/gin-gonic/gin"
)

func RegisterTagRoutes(group *gin.RouterGroup, db *database.Database, tagService services.TagServiceInterface) {
	group.GET("/tags", func(c *gin.Context) { GetTags(c, db, tagService) })
	group.POST("/tags", func(c *gin.Context) { CreateTag(c, db, tagService) })
	group.POST("/tags/quick", func(c *gin.Context) { QuickAddTag(c, db, tagService) })
	group.DELETE("/tags/last", func(c *gin.Context) { DeleteLastTag(c, db, tagService) })
	group.GET("/tags/:id", func(c *gin.Context) { GetTagById(c, db, tagService) })
	group.PUT("/tags/:id", func(c *gin.Context) { UpdateTag(c, db, tagService) })
	group.POST("/tags/:id/cycle-color", func(c *gin.Context) { CycleTagColor(c, db, tagService) })
	group.DELETE("/tags/:id", func(c *gin.Context) { DeleteTag(c, db, tagService) })
}

func GetTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tags, err := tagService.GetTags(db)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func CreateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tagData := map[string]interface{}{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&tagData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	tag, err := tagService.CreateTag(db, tagData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func QuickAddTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tag, err := tagService.QuickAddTag(db)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func GetTagById(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tag, err := tagService.GetTagById(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func UpdateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	var tagData map[string]interface{}
	if err := c.ShouldBindJSON(&tagData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := tagService.UpdateTag(db, c.Param("id"), tagData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func CycleTagColor(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tag, err := tagService.CycleTagColor(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func DeleteTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	if err := tagService.DeleteTag(db, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteLastTag removes the newest tag. An empty tag list is not an error.
func DeleteLastTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tag, deleted, err := tagService.DeleteLastTag(db)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"deleted": deleted}
	if deleted {
		body["tag"] = tag
	}
	c.JSON(http.StatusOK, body)
}
