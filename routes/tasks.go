package routes

import (
	"net/http"
	"time"

	"tagdo/tagdo/database"
	"tagdo/tagdo/models"
	"tagdo/tagdo/services"

	"github.com/gin-gonic/gin"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.POST("/tasks/quick", func(c *gin.Context) { QuickAddTask(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.GET("/tasks/:id/icon", func(c *gin.Context) { GetTaskIcon(c, db, taskService) })
	group.PUT("/tasks/:id/tags", func(c *gin.Context) { SetTaskTags(c, db, taskService) })
	group.POST("/tasks/:id/tags/:tagId", func(c *gin.Context) { AddTagToTask(c, db, taskService) })
	group.DELETE("/tasks/:id/tags/:tagId", func(c *gin.Context) { RemoveTagFromTask(c, db, taskService) })
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var taskData map[string]interface{}
	if err := c.ShouldBindJSON(&taskData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdTask, err := taskService.CreateTask(db, taskData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdTask)
}

// QuickAddTask creates a timestamped, completed task carrying every tag.
func QuickAddTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.QuickAddTask(db, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.GetTaskById(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var taskData map[string]interface{}
	if err := c.ShouldBindJSON(&taskData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedTask, err := taskService.UpdateTask(db, c.Param("id"), taskData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedTask)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	if err := taskService.DeleteTask(db, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	params := make(map[string]interface{})
	for _, key := range []string{"completed", "tag_id", "title"} {
		if value := c.Query(key); value != "" {
			params[key] = value
		}
	}

	tasks, err := taskService.GetTasks(db, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTaskIcon serves the raw icon image. Tasks without a decodable icon get
// a 404 naming the placeholder symbol.
func GetTaskIcon(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.GetTaskById(db, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	icon := task.Icon()
	if !icon.Valid {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "task has no icon",
			"symbol": models.FallbackIconSymbol,
		})
		return
	}
	c.Data(http.StatusOK, icon.ContentType, task.IconData)
}

type setTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

func SetTaskTags(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var req setTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.SetTaskTags(db, c.Param("id"), req.TagIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func AddTagToTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.AddTagToTask(db, c.Param("id"), c.Param("tagId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func RemoveTagFromTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	task, err := taskService.RemoveTagFromTask(db, c.Param("id"), c.Param("tagId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
