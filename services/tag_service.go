package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/database"
	"tagdo/tagdo/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagServiceInterface interface {
	CreateTag(db *database.Database, tagData map[string]interface{}) (models.Tag, error)
	QuickAddTag(db *database.Database) (models.Tag, error)
	GetTags(db *database.Database) ([]models.Tag, error)
	GetTagById(db *database.Database, id string) (models.Tag, error)
	UpdateTag(db *database.Database, id string, tagData map[string]interface{}) (models.Tag, error)
	CycleTagColor(db *database.Database, id string) (models.Tag, error)
	DeleteTag(db *database.Database, id string) error
	DeleteLastTag(db *database.Database) (models.Tag, bool, error)
}

type TagService struct {
	// PickColor chooses the color for tags created without one.
	PickColor func() models.TagColor
}

func RandomTagColor() models.TagColor {
	return models.AllTagColors[rand.Intn(len(models.AllTagColors))]
}

func (s *TagService) pickColor() models.TagColor {
	if s.PickColor != nil {
		return s.PickColor()
	}
	return RandomTagColor()
}

func (s *TagService) CreateTag(db *database.Database, tagData map[string]interface{}) (models.Tag, error) {
	tag := models.Tag{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}

	if raw, exists := tagData["name"]; exists {
		name, ok := raw.(string)
		if !ok {
			return models.Tag{}, fmt.Errorf("%w: name must be a string", ErrInvalidInput)
		}
		tag.Name = strings.TrimSpace(name)
	}

	if raw, exists := tagData["color"]; exists {
		str, ok := raw.(string)
		if !ok {
			return models.Tag{}, fmt.Errorf("%w: color must be a string", ErrInvalidInput)
		}
		color, err := models.ParseTagColor(str)
		if err != nil {
			return models.Tag{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		tag.Color = color
	} else {
		tag.Color = s.pickColor()
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if tag.Name == "" {
			var count int64
			if err := tx.Model(&models.Tag{}).Count(&count).Error; err != nil {
				return err
			}
			tag.Name = fmt.Sprintf("Tag %d", count+1)
		}
		if err := tx.Create(&tag).Error; err != nil {
			return err
		}
		return recordEvent(tx, broker.TagCreated, "tag", "create", tagEventData(tag))
	})
	if err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// QuickAddTag inserts "Tag <n+1>" with a random palette color.
func (s *TagService) QuickAddTag(db *database.Database) (models.Tag, error) {
	return s.CreateTag(db, map[string]interface{}{})
}

func (s *TagService) GetTags(db *database.Database) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := db.DB.Order("created_at ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) GetTagById(db *database.Database, id string) (models.Tag, error) {
	tagID, err := parseID(id)
	if err != nil {
		return models.Tag{}, err
	}
	var tag models.Tag
	err = db.DB.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("tasks.created_at ASC")
	}).First(&tag, "id = ?", tagID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tag{}, ErrTagNotFound
		}
		return models.Tag{}, err
	}
	return tag, nil
}

func findTag(tx *gorm.DB, tagID uuid.UUID) (models.Tag, error) {
	var tag models.Tag
	if err := tx.First(&tag, "id = ?", tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tag{}, ErrTagNotFound
		}
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagService) UpdateTag(db *database.Database, id string, tagData map[string]interface{}) (models.Tag, error) {
	tagID, err := parseID(id)
	if err != nil {
		return models.Tag{}, err
	}

	updates := map[string]interface{}{}
	if raw, exists := tagData["name"]; exists {
		name, ok := raw.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return models.Tag{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = strings.TrimSpace(name)
	}
	if raw, exists := tagData["color"]; exists {
		str, _ := raw.(string)
		color, err := models.ParseTagColor(str)
		if err != nil {
			return models.Tag{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		updates["color"] = color
	}

	return s.updateTag(db, tagID, func(models.Tag) map[string]interface{} { return updates })
}

// CycleTagColor advances the tag to the next palette color.
func (s *TagService) CycleTagColor(db *database.Database, id string) (models.Tag, error) {
	tagID, err := parseID(id)
	if err != nil {
		return models.Tag{}, err
	}
	return s.updateTag(db, tagID, func(current models.Tag) map[string]interface{} {
		return map[string]interface{}{"color": current.Color.Next()}
	})
}

func (s *TagService) updateTag(db *database.Database, tagID uuid.UUID, changes func(models.Tag) map[string]interface{}) (models.Tag, error) {
	var tag models.Tag
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findTag(tx, tagID)
		if err != nil {
			return err
		}
		updates := changes(current)
		if len(updates) > 0 {
			if err := tx.Model(&models.Tag{}).Where("id = ?", tagID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if tag, err = findTag(tx, tagID); err != nil {
			return err
		}
		return recordEvent(tx, broker.TagUpdated, "tag", "update", tagEventData(tag))
	})
	if err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// DeleteTag removes the tag from every task and then deletes it.
func (s *TagService) DeleteTag(db *database.Database, id string) error {
	tagID, err := parseID(id)
	if err != nil {
		return err
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		tag, err := findTag(tx, tagID)
		if err != nil {
			return err
		}
		return deleteTag(tx, tag)
	})
}

// DeleteLastTag deletes the most recently created tag. The boolean is false
// when there was no tag to delete.
func (s *TagService) DeleteLastTag(db *database.Database) (models.Tag, bool, error) {
	var tag models.Tag
	deleted := false
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Order("created_at DESC").Order("id DESC").First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := deleteTag(tx, tag); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return models.Tag{}, false, err
	}
	if !deleted {
		return models.Tag{}, false, nil
	}
	return tag, true, nil
}

func deleteTag(tx *gorm.DB, tag models.Tag) error {
	if err := tx.Model(&tag).Association("Tasks").Clear(); err != nil {
		return err
	}
	if err := tx.Delete(&tag).Error; err != nil {
		return err
	}
	return recordEvent(tx, broker.TagDeleted, "tag", "delete", tagEventData(tag))
}

var TagServiceInstance TagServiceInterface = &TagService{}
