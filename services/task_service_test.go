package services

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/database"
	"tagdo/tagdo/models"
	"tagdo/tagdo/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedColor(c models.TagColor) func() models.TagColor {
	return func() models.TagColor { return c }
}

func mustTag(t *testing.T, db *database.Database, name string) models.Tag {
	t.Helper()
	svc := &TagService{PickColor: fixedColor(models.TagColorBlue)}
	tag, err := svc.CreateTag(db, map[string]interface{}{"name": name})
	require.NoError(t, err)
	return tag
}

func eventsOfType(t *testing.T, db *database.Database, eventType broker.EventType) []models.Event {
	t.Helper()
	var events []models.Event
	require.NoError(t, db.DB.Where("event = ?", string(eventType)).Find(&events).Error)
	return events
}

func TestCreateTask_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	tag := mustTag(t, db, "home")
	svc := &TaskService{}

	task, err := svc.CreateTask(db, map[string]interface{}{
		"title":   "buy a mouse",
		"content": "wireless",
		"tag_ids": []interface{}{tag.ID.String()},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "buy a mouse", task.Title)
	assert.False(t, task.IsDone)

	loaded, err := svc.GetTaskById(db, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "wireless", loaded.Content)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, tag.ID, loaded.Tags[0].ID)

	created := eventsOfType(t, db, broker.TaskCreated)
	require.Len(t, created, 1)
	assert.Equal(t, task.ID.String(), created[0].DataMap()["task_id"])
}

func TestCreateTask_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}

	_, err := svc.CreateTask(db, map[string]interface{}{"title": "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(db, map[string]interface{}{"title": "x", "tag_ids": []interface{}{"nope"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(db, map[string]interface{}{"title": "x", "tag_ids": []interface{}{uuid.NewString()}})
	assert.ErrorIs(t, err, ErrTagNotFound)

	_, err = svc.CreateTask(db, map[string]interface{}{"title": "x", "icon_data": "%%%"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(db, map[string]interface{}{"title": "x", "is_done": "yes"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "is_done must be a boolean")

	_, err = svc.CreateTask(db, map[string]interface{}{"title": "x", "content": 42})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "content must be a string")

	var count int64
	require.NoError(t, db.DB.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTask_IconData(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}
	icon := models.DefaultIconPNG()

	task, err := svc.CreateTask(db, map[string]interface{}{
		"title":     "with icon",
		"icon_data": base64.StdEncoding.EncodeToString(icon),
	})
	require.NoError(t, err)

	loaded, err := svc.GetTaskById(db, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, icon, loaded.IconData)
	assert.True(t, loaded.Icon().Valid)
}

func TestQuickAddTask_UsesAllTags(t *testing.T) {
	db := testutils.SetupTestDB(t)
	first := mustTag(t, db, "Tag 1")
	second := mustTag(t, db, "Tag 2")
	svc := &TaskService{}

	now := time.Date(2024, 9, 13, 10, 30, 0, 0, time.UTC)
	task, err := svc.QuickAddTask(db, now)
	require.NoError(t, err)

	assert.Equal(t, "2024-09-13 10:30:00 +0000", task.Title)
	assert.Equal(t, "Todo Created on 2024-09-13 10:30:00 +0000", task.Content)
	assert.True(t, task.IsDone)
	assert.True(t, task.Icon().Valid)

	loaded, err := svc.GetTaskById(db, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, loaded.TagIDs())
}

func TestQuickAddTask_StampsInUTC(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}

	eastern := time.FixedZone("EDT", -4*60*60)
	task, err := svc.QuickAddTask(db, time.Date(2024, 9, 13, 6, 30, 0, 0, eastern))
	require.NoError(t, err)

	assert.Equal(t, "2024-09-13 10:30:00 +0000", task.Title)
	assert.Equal(t, "Todo Created on 2024-09-13 10:30:00 +0000", task.Content)
}

func TestGetTaskById_NotFound(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}

	_, err := svc.GetTaskById(db, uuid.NewString())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.GetTaskById(db, "non-existent-id")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTaskById_DatabaseError(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnError(errors.New("connection reset"))

	svc := &TaskService{}
	_, err := svc.GetTaskById(db, uuid.NewString())
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTasks_OrderAndFilters(t *testing.T) {
	db := testutils.SetupTestDB(t)
	tag := mustTag(t, db, "work")
	svc := &TaskService{}

	a, err := svc.CreateTask(db, map[string]interface{}{"title": "Order keyboard"})
	require.NoError(t, err)
	b, err := svc.CreateTask(db, map[string]interface{}{"title": "buy a mouse", "is_done": true, "tag_ids": []string{tag.ID.String()}})
	require.NoError(t, err)
	c, err := svc.CreateTask(db, map[string]interface{}{"title": "order cables"})
	require.NoError(t, err)

	all, err := svc.GetTasks(db, map[string]interface{}{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	done, err := svc.GetTasks(db, map[string]interface{}{"completed": "true"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, b.ID, done[0].ID)

	open, err := svc.GetTasks(db, map[string]interface{}{"completed": "false"})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	tagged, err := svc.GetTasks(db, map[string]interface{}{"tag_id": tag.ID.String()})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, b.ID, tagged[0].ID)
	require.Len(t, tagged[0].Tags, 1)

	byTitle, err := svc.GetTasks(db, map[string]interface{}{"title": "ORDER"})
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	_, err = svc.GetTasks(db, map[string]interface{}{"tag_id": "bad"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetTasks(db, map[string]interface{}{"completed": "yes"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	numeric, err := svc.GetTasks(db, map[string]interface{}{"completed": "1"})
	require.NoError(t, err)
	assert.Len(t, numeric, 1)
}

func TestUpdateTask_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}
	task, err := svc.CreateTask(db, map[string]interface{}{"title": "Old Title"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(db, task.ID.String(), map[string]interface{}{
		"title":   "Updated Task",
		"content": "new body",
		"is_done": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.True(t, updated.IsDone)

	// Partial update leaves other fields alone.
	updated, err = svc.UpdateTask(db, task.ID.String(), map[string]interface{}{"is_done": false})
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", updated.Title)
	assert.False(t, updated.IsDone)

	assert.Len(t, eventsOfType(t, db, broker.TaskUpdated), 2)
}

func TestUpdateTask_Errors(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TaskService{}
	task, err := svc.CreateTask(db, map[string]interface{}{"title": "keep"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(db, task.ID.String(), map[string]interface{}{"title": ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateTask(db, task.ID.String(), map[string]interface{}{"is_done": "yes"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateTask(db, uuid.NewString(), map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	loaded, err := svc.GetTaskById(db, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "keep", loaded.Title)
}

func TestTaskTagMutations(t *testing.T) {
	db := testutils.SetupTestDB(t)
	one := mustTag(t, db, "one")
	two := mustTag(t, db, "two")
	svc := &TaskService{}
	task, err := svc.CreateTask(db, map[string]interface{}{"title": "tagged"})
	require.NoError(t, err)

	updated, err := svc.AddTagToTask(db, task.ID.String(), two.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{two.ID}, updated.TagIDs())

	updated, err = svc.AddTagToTask(db, task.ID.String(), one.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{one.ID, two.ID}, updated.TagIDs(), "tags follow creation order")

	updated, err = svc.AddTagToTask(db, task.ID.String(), one.ID.String())
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)

	updated, err = svc.RemoveTagFromTask(db, task.ID.String(), two.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{one.ID}, updated.TagIDs())

	updated, err = svc.SetTaskTags(db, task.ID.String(), []string{two.ID.String(), one.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{one.ID, two.ID}, updated.TagIDs())

	updated, err = svc.SetTaskTags(db, task.ID.String(), nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	_, err = svc.AddTagToTask(db, task.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, ErrTagNotFound)

	_, err = svc.AddTagToTask(db, uuid.NewString(), one.ID.String())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	tag := mustTag(t, db, "keep me")
	svc := &TaskService{}
	task, err := svc.CreateTask(db, map[string]interface{}{"title": "bye", "tag_ids": []string{tag.ID.String()}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(db, task.ID.String()))

	_, err = svc.GetTaskById(db, task.ID.String())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	var links int64
	require.NoError(t, db.DB.Table("task_tags").Count(&links).Error)
	assert.Zero(t, links)

	_, err = (&TagService{}).GetTagById(db, tag.ID.String())
	assert.NoError(t, err, "deleting a task keeps its tags")

	assert.Len(t, eventsOfType(t, db, broker.TaskDeleted), 1)
	assert.ErrorIs(t, svc.DeleteTask(db, task.ID.String()), ErrTaskNotFound)
}

func TestDeleteTask_BeginFails(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin().WillReturnError(errors.New("begin failed"))

	err := (&TaskService{}).DeleteTask(db, uuid.NewString())
	assert.EqualError(t, err, "begin failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
