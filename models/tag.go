package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagColor is one of the four fixed tag colors.
type TagColor string

const (
	TagColorRed    TagColor = "red"
	TagColorBlue   TagColor = "blue"
	TagColorMint   TagColor = "mint"
	TagColorOrange TagColor = "orange"
)

// AllTagColors lists the palette in its canonical order.
var AllTagColors = []TagColor{TagColorRed, TagColorBlue, TagColorMint, TagColorOrange}

// ParseTagColor normalizes s and checks it against the palette.
func ParseTagColor(s string) (TagColor, error) {
	c := TagColor(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown tag color %q", s)
	}
	return c, nil
}

func (c TagColor) Valid() bool {
	for _, known := range AllTagColors {
		if c == known {
			return true
		}
	}
	return false
}

// Next returns the following palette color, wrapping after orange.
// Unknown colors restart the cycle at red.
func (c TagColor) Next() TagColor {
	for i, known := range AllTagColors {
		if c == known {
			return AllTagColors[(i+1)%len(AllTagColors)]
		}
	}
	return AllTagColors[0]
}

// Hex is the display color used by terminal renderers.
func (c TagColor) Hex() string {
	switch c {
	case TagColorRed:
		return "#FF3B30"
	case TagColorBlue:
		return "#007AFF"
	case TagColorMint:
		return "#00C7BE"
	case TagColorOrange:
		return "#FF9500"
	default:
		return "#8E8E93"
	}
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     TagColor  `gorm:"type:varchar(16);not null" json:"color"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	Tasks     []Task    `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Tag) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}

func (t *Tag) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}
