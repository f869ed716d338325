package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/database"
	"tagdo/tagdo/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskServiceInterface interface {
	CreateTask(db *database.Database, taskData map[string]interface{}) (models.Task, error)
	QuickAddTask(db *database.Database, now time.Time) (models.Task, error)
	GetTaskById(db *database.Database, id string) (models.Task, error)
	UpdateTask(db *database.Database, id string, taskData map[string]interface{}) (models.Task, error)
	DeleteTask(db *database.Database, id string) error
	GetTasks(db *database.Database, params map[string]interface{}) ([]models.Task, error)
	SetTaskTags(db *database.Database, id string, tagIDs []string) (models.Task, error)
	AddTagToTask(db *database.Database, id string, tagID string) (models.Task, error)
	RemoveTagFromTask(db *database.Database, id string, tagID string) (models.Task, error)
}

type TaskService struct{}

func (s *TaskService) CreateTask(db *database.Database, taskData map[string]interface{}) (models.Task, error) {
	title, ok := taskData["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	task := models.Task{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	content, _, err := optionalString(taskData, "content")
	if err != nil {
		return models.Task{}, err
	}
	task.Content = content
	done, _, err := optionalBool(taskData, "is_done")
	if err != nil {
		return models.Task{}, err
	}
	task.IsDone = done
	if raw, exists := taskData["icon_data"]; exists {
		icon, err := decodeIcon(raw)
		if err != nil {
			return models.Task{}, err
		}
		task.IconData = icon
	}

	rawTagIDs, err := stringSlice(taskData["tag_ids"])
	if err != nil {
		return models.Task{}, err
	}
	tagIDs, err := parseIDs(rawTagIDs)
	if err != nil {
		return models.Task{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	tags, err := findTags(tx, tagIDs)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	task.Tags = tags

	if err := s.insertTask(tx, &task); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

// QuickAddTask inserts a task titled with the creation time, carrying the
// default icon and every existing tag.
func (s *TaskService) QuickAddTask(db *database.Database, now time.Time) (models.Task, error) {
	stamp := now.UTC().Format(CreatedLayout)
	task := models.Task{
		ID:        uuid.New(),
		Title:     stamp,
		Content:   "Todo Created on " + stamp,
		IconData:  models.DefaultIconPNG(),
		IsDone:    true,
		CreatedAt: now.UTC(),
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var tags []models.Tag
	if err := tx.Order("created_at ASC").Find(&tags).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	task.Tags = tags

	if err := s.insertTask(tx, &task); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) insertTask(tx *gorm.DB, task *models.Task) error {
	if err := tx.Omit("Tags.*").Create(task).Error; err != nil {
		return err
	}
	return recordEvent(tx, broker.TaskCreated, "task", "create", taskEventData(*task))
}

func (s *TaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return models.Task{}, err
	}
	return loadTask(db.DB, taskID)
}

func loadTask(tx *gorm.DB, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := tx.Preload("Tags", tagsByCreation).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(db *database.Database, id string, taskData map[string]interface{}) (models.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return models.Task{}, err
	}

	updates := map[string]interface{}{}
	if raw, exists := taskData["title"]; exists {
		title, ok := raw.(string)
		if !ok || strings.TrimSpace(title) == "" {
			return models.Task{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		updates["title"] = title
	}
	if content, ok, err := optionalString(taskData, "content"); err != nil {
		return models.Task{}, err
	} else if ok {
		updates["content"] = content
	}
	if done, ok, err := optionalBool(taskData, "is_done"); err != nil {
		return models.Task{}, err
	} else if ok {
		updates["is_done"] = done
	}
	if raw, exists := taskData["icon_data"]; exists {
		icon, err := decodeIcon(raw)
		if err != nil {
			return models.Task{}, err
		}
		updates["icon_data"] = icon
	}

	var tagIDs []uuid.UUID
	_, replaceTags := taskData["tag_ids"]
	if replaceTags {
		raw, err := stringSlice(taskData["tag_ids"])
		if err != nil {
			return models.Task{}, err
		}
		if tagIDs, err = parseIDs(raw); err != nil {
			return models.Task{}, err
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	task, err := loadTask(tx, taskID)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	if replaceTags {
		if err := replaceTaskTags(tx, &task, tagIDs); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	task, err = loadTask(tx, taskID)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := recordEvent(tx, broker.TaskUpdated, "task", "update", taskEventData(task)); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func replaceTaskTags(tx *gorm.DB, task *models.Task, tagIDs []uuid.UUID) error {
	tags, err := findTags(tx, tagIDs)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return tx.Model(task).Association("Tags").Clear()
	}
	return tx.Model(task).Association("Tags").Replace(tags)
}

func (s *TaskService) SetTaskTags(db *database.Database, id string, tagIDs []string) (models.Task, error) {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return s.UpdateTask(db, id, map[string]interface{}{"tag_ids": tagIDs})
}

func (s *TaskService) AddTagToTask(db *database.Database, id string, tagID string) (models.Task, error) {
	return s.mutateTags(db, id, tagID, func(tx *gorm.DB, task *models.Task, tag *models.Tag) error {
		return tx.Model(task).Association("Tags").Append(tag)
	})
}

func (s *TaskService) RemoveTagFromTask(db *database.Database, id string, tagID string) (models.Task, error) {
	return s.mutateTags(db, id, tagID, func(tx *gorm.DB, task *models.Task, tag *models.Tag) error {
		return tx.Model(task).Association("Tags").Delete(tag)
	})
}

func (s *TaskService) mutateTags(db *database.Database, id string, tagID string, mutate func(*gorm.DB, *models.Task, *models.Tag) error) (models.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return models.Task{}, err
	}
	tagUUID, err := parseID(tagID)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		current, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		tags, err := findTags(tx, []uuid.UUID{tagUUID})
		if err != nil {
			return err
		}
		if err := mutate(tx, &current, &tags[0]); err != nil {
			return err
		}
		if task, err = loadTask(tx, taskID); err != nil {
			return err
		}
		return recordEvent(tx, broker.TaskUpdated, "task", "update", taskEventData(task))
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(db *database.Database, id string) error {
	taskID, err := parseID(id)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Model(&task).Association("Tags").Clear(); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordEvent(tx, broker.TaskDeleted, "task", "delete", map[string]interface{}{
		"task_id": task.ID.String(),
	}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *TaskService) GetTasks(db *database.Database, params map[string]interface{}) ([]models.Task, error) {
	tasks := []models.Task{}
	query := db.DB.Model(&models.Task{})

	if completed, ok := params["completed"].(string); ok && completed != "" {
		done, err := parseBoolParam("completed", completed)
		if err != nil {
			return nil, err
		}
		query = query.Where("is_done = ?", done)
	}

	if tagID, ok := params["tag_id"].(string); ok && tagID != "" {
		tagUUID, err := parseID(tagID)
		if err != nil {
			return nil, err
		}
		query = query.Where("id IN (?)", db.DB.Table("task_tags").Select("task_id").Where("tag_id = ?", tagUUID))
	}

	if title, ok := params["title"].(string); ok && title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}

	result := query.Preload("Tags", tagsByCreation).Order("created_at ASC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
