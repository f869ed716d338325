package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatedLayout formats timestamps used in quick-added titles and bodies.
const CreatedLayout = "2006-01-02 15:04:05 -0700"

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}
	return parsed, nil
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := parseID(id)
		if err != nil {
			return nil, err
		}
		if seen[parsed] {
			continue
		}
		seen[parsed] = true
		out = append(out, parsed)
	}
	return out, nil
}

// stringSlice accepts the shapes JSON decoding produces for a list of ids.
func stringSlice(v interface{}) ([]string, error) {
	switch vals := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vals, nil
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected a list of ids", ErrInvalidInput)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of ids", ErrInvalidInput)
	}
}

// optionalString reads data[key] when present; any non-string is invalid.
func optionalString(data map[string]interface{}, key string) (string, bool, error) {
	raw, exists := data[key]
	if !exists {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, key)
	}
	return s, true, nil
}

// optionalBool reads data[key] when present; any non-bool is invalid.
func optionalBool(data map[string]interface{}, key string) (bool, bool, error) {
	raw, exists := data[key]
	if !exists {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidInput, key)
	}
	return b, true, nil
}

// parseBoolParam parses a "true"/"false" style query value.
func parseBoolParam(key, value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidInput, key, value)
	}
	return b, nil
}

func decodeIcon(v interface{}) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: icon_data must be a base64 string", ErrInvalidInput)
	}
	if s == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: icon_data is not valid base64", ErrInvalidInput)
	}
	return data, nil
}

func tagsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("tags.created_at ASC")
}

// findTags loads every tag in ids, failing with ErrTagNotFound if any is missing.
func findTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Order("created_at ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func recordEvent(tx *gorm.DB, eventType broker.EventType, entity, operation string, data map[string]interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, operation, data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func taskEventData(task models.Task) map[string]interface{} {
	tagIDs := make([]string, 0, len(task.Tags))
	for _, id := range task.TagIDs() {
		tagIDs = append(tagIDs, id.String())
	}
	return map[string]interface{}{
		"task_id": task.ID.String(),
		"title":   task.Title,
		"is_done": task.IsDone,
		"tag_ids": tagIDs,
	}
}

func tagEventData(tag models.Tag) map[string]interface{} {
	return map[string]interface{}{
		"tag_id": tag.ID.String(),
		"name":   tag.Name,
		"color":  string(tag.Color),
	}
}
