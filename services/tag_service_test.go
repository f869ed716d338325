package services

import (
	"testing"

	"tagdo/tagdo/broker"
	"tagdo/tagdo/models"
	"tagdo/tagdo/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickAddTag_NamesSequentially(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TagService{PickColor: fixedColor(models.TagColorMint)}

	first, err := svc.QuickAddTag(db)
	require.NoError(t, err)
	second, err := svc.QuickAddTag(db)
	require.NoError(t, err)

	assert.Equal(t, "Tag 1", first.Name)
	assert.Equal(t, "Tag 2", second.Name)
	assert.Equal(t, models.TagColorMint, second.Color)

	tags, err := svc.GetTags(db)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, first.ID, tags[0].ID)
	assert.Equal(t, second.ID, tags[1].ID)

	assert.Len(t, eventsOfType(t, db, broker.TagCreated), 2)
}

func TestRandomTagColorStaysInPalette(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, RandomTagColor().Valid())
	}
}

func TestCreateTag_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TagService{}

	_, err := svc.CreateTag(db, map[string]interface{}{"color": "purple"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTag(db, map[string]interface{}{"name": 12})
	assert.ErrorIs(t, err, ErrInvalidInput)

	tag, err := svc.CreateTag(db, map[string]interface{}{"name": "urgent", "color": "Orange"})
	require.NoError(t, err)
	assert.Equal(t, "urgent", tag.Name)
	assert.Equal(t, models.TagColorOrange, tag.Color)
}

func TestUpdateAndCycleTag(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TagService{PickColor: fixedColor(models.TagColorOrange)}
	tag, err := svc.QuickAddTag(db)
	require.NoError(t, err)

	updated, err := svc.UpdateTag(db, tag.ID.String(), map[string]interface{}{"name": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, models.TagColorOrange, updated.Color)

	cycled, err := svc.CycleTagColor(db, tag.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.TagColorRed, cycled.Color)

	cycled, err = svc.CycleTagColor(db, tag.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.TagColorBlue, cycled.Color)

	_, err = svc.UpdateTag(db, tag.ID.String(), map[string]interface{}{"color": "black"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateTag(db, tag.ID.String(), map[string]interface{}{"name": " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CycleTagColor(db, uuid.NewString())
	assert.ErrorIs(t, err, ErrTagNotFound)

	assert.Len(t, eventsOfType(t, db, broker.TagUpdated), 3)
}

func TestDeleteTag_RemovesFromEveryTask(t *testing.T) {
	db := testutils.SetupTestDB(t)
	tags := &TagService{PickColor: fixedColor(models.TagColorRed)}
	tasks := &TaskService{}

	doomed, err := tags.QuickAddTag(db)
	require.NoError(t, err)
	kept, err := tags.QuickAddTag(db)
	require.NoError(t, err)

	a, err := tasks.QuickAddTask(db, nowUTC())
	require.NoError(t, err)
	b, err := tasks.QuickAddTask(db, nowUTC())
	require.NoError(t, err)

	loaded, err := tags.GetTagById(db, doomed.ID.String())
	require.NoError(t, err)
	assert.Len(t, loaded.Tasks, 2)

	require.NoError(t, tags.DeleteTag(db, doomed.ID.String()))

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		task, err := tasks.GetTaskById(db, id.String())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{kept.ID}, task.TagIDs())
	}

	_, err = tags.GetTagById(db, doomed.ID.String())
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.ErrorIs(t, tags.DeleteTag(db, doomed.ID.String()), ErrTagNotFound)
	assert.Len(t, eventsOfType(t, db, broker.TagDeleted), 1)
}

func TestDeleteLastTag(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := &TagService{PickColor: fixedColor(models.TagColorBlue)}

	_, deleted, err := svc.DeleteLastTag(db)
	require.NoError(t, err)
	assert.False(t, deleted, "no tags means nothing to delete")

	first, err := svc.QuickAddTag(db)
	require.NoError(t, err)
	second, err := svc.QuickAddTag(db)
	require.NoError(t, err)

	task, err := (&TaskService{}).QuickAddTask(db, nowUTC())
	require.NoError(t, err)
	require.Len(t, task.Tags, 2)

	removed, deleted, err := svc.DeleteLastTag(db)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, second.ID, removed.ID)

	remaining, err := svc.GetTags(db)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)

	reloaded, err := (&TaskService{}).GetTaskById(db, task.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, reloaded.TagIDs())

	next, err := svc.QuickAddTag(db)
	require.NoError(t, err)
	assert.Equal(t, "Tag 2", next.Name)
}
