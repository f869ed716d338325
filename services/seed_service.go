package services

import (
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/database"
	"tagdo/tagdo/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreviewTask is one of the tasks inserted by SeedPreview.
type PreviewTask struct {
	Title string
	Icon  func() []byte
}

// PreviewTasks are inserted by SeedPreview, in order.
var PreviewTasks = []PreviewTask{
	{Title: "buy a mouse", Icon: models.MouseIconPNG},
	{Title: "order keyboard", Icon: models.KeyboardIconPNG},
}

type SeedServiceInterface interface {
	SeedPreview(db *database.Database, now time.Time, force bool) ([]models.Task, error)
}

type SeedService struct{}

// SeedPreview inserts the preview tasks. Without force it does nothing when
// any task already exists.
func (s *SeedService) SeedPreview(db *database.Database, now time.Time, force bool) ([]models.Task, error) {
	created := []models.Task{}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if !force {
			var count int64
			if err := tx.Model(&models.Task{}).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
		}

		stamp := now.UTC().Format(CreatedLayout)
		for i, preview := range PreviewTasks {
			task := models.Task{
				ID:        uuid.New(),
				Title:     preview.Title,
				Content:   "Todo Created on " + stamp,
				IconData:  preview.Icon(),
				IsDone:    true,
				CreatedAt: now.UTC().Add(time.Duration(i) * time.Millisecond),
				Tags:      []models.Tag{},
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
			if err := recordEvent(tx, broker.TaskCreated, "task", "create", taskEventData(task)); err != nil {
				return err
			}
			created = append(created, task)
		}

		if len(created) == 0 {
			return nil
		}
		return recordEvent(tx, broker.SeedLoaded, "seed", "create", map[string]interface{}{
			"count": len(created),
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

var SeedServiceInstance SeedServiceInterface = &SeedService{}
