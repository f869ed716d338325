package testutils

import (
	"time"

	"tagdo/tagdo/database"
	"tagdo/tagdo/models"

	"github.com/stretchr/testify/mock"
)

// MockTaskService mocks services.TaskServiceInterface
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(db *database.Database, taskData map[string]interface{}) (models.Task, error) {
	args := m.Called(db, taskData)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) QuickAddTask(db *database.Database, now time.Time) (models.Task, error) {
	args := m.Called(db, now)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(db *database.Database, id string, taskData map[string]interface{}) (models.Task, error) {
	args := m.Called(db, id, taskData)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(db *database.Database, id string) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockTaskService) GetTasks(db *database.Database, params map[string]interface{}) ([]models.Task, error) {
	args := m.Called(db, params)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) SetTaskTags(db *database.Database, id string, tagIDs []string) (models.Task, error) {
	args := m.Called(db, id, tagIDs)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) AddTagToTask(db *database.Database, id string, tagID string) (models.Task, error) {
	args := m.Called(db, id, tagID)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) RemoveTagFromTask(db *database.Database, id string, tagID string) (models.Task, error) {
	args := m.Called(db, id, tagID)
	return args.Get(0).(models.Task), args.Error(1)
}

// MockTagService mocks services.TagServiceInterface
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) CreateTag(db *database.Database, tagData map[string]interface{}) (models.Tag, error) {
	args := m.Called(db, tagData)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) QuickAddTag(db *database.Database) (models.Tag, error) {
	args := m.Called(db)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) GetTags(db *database.Database) ([]models.Tag, error) {
	args := m.Called(db)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagService) GetTagById(db *database.Database, id string) (models.Tag, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) UpdateTag(db *database.Database, id string, tagData map[string]interface{}) (models.Tag, error) {
	args := m.Called(db, id, tagData)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) CycleTagColor(db *database.Database, id string) (models.Tag, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) DeleteTag(db *database.Database, id string) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockTagService) DeleteLastTag(db *database.Database) (models.Tag, bool, error) {
	args := m.Called(db)
	return args.Get(0).(models.Tag), args.Bool(1), args.Error(2)
}

// MockSeedService mocks services.SeedServiceInterface
type MockSeedService struct {
	mock.Mock
}

func (m *MockSeedService) SeedPreview(db *database.Database, now time.Time, force bool) ([]models.Task, error) {
	args := m.Called(db, now, force)
	return args.Get(0).([]models.Task), args.Error(1)
}
