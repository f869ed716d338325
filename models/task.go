package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null;default:''" json:"title"`
	Content   string    `gorm:"not null;default:''" json:"content"`
	IconData  []byte    `json:"icon_data,omitempty"`
	IsDone    bool      `gorm:"not null;default:false" json:"is_done"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	Tags      []Tag     `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

// BeforeCreate assigns the task identifier when the caller left it empty.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Icon decodes the stored icon data.
func (t *Task) Icon() Icon {
	return DecodeIcon(t.IconData)
}

// TagIDs returns the identifiers of the attached tags in collection order.
func (t *Task) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Tags))
	for _, tag := range t.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func (t *Task) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}

func (t *Task) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}
